package ioutils

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
)

// DefaultSettleDelay is how long a Watcher waits for a burst of events to
// end before it signals a change.
const DefaultSettleDelay = 200 * time.Millisecond

// Watcher reports when the set of audio files in a directory may have
// changed. Events are coalesced: a burst of writes, like the ones produced
// by saving a tag, results in a single signal.
//
// The signal carries no detail. Receivers are expected to list the
// directory again with ListAudioFiles.
type Watcher struct {
	watcher *fsnotify.Watcher
	matcher glob.Glob
	delay   time.Duration
	log     logrus.FieldLogger

	changes chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWatcher starts watching dir for files matching pattern.
func NewWatcher(dir, pattern string, log logrus.FieldLogger) (*Watcher, error) {
	matcher, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fsw,
		matcher: matcher,
		delay:   DefaultSettleDelay,
		log:     log.WithField("dir", dir),
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Changes returns a channel that receives a value after matching files
// were created, removed, renamed or written. It is closed by Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.WithField("event", event.String()).Debug("Directory changed")
			timer.Reset(w.delay)

		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
				// A signal is already pending.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("Watcher error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return w.matcher.Match(strings.ToLower(filepath.Base(event.Name)))
}
