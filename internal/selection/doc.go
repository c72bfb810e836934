// Package selection edits several tracks at once.
//
// A Synchronizer holds the tracks a user has selected, shows for every
// editor field whether the selection agrees on a value, and writes the
// fields the user ticked back to every selected track. It also renames
// selected files after their tags and keeps its path index in step.
//
// The package has no rendering code. A UI drives it with SetSelection,
// reads Views and calls Apply, ApplyPicture or RenameSelected.
package selection
