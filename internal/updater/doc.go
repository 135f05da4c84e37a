// Package updater rebuilds and refreshes the song tree from the catalog.
//
// An update loads the catalog without the lock, then applies every change in
// one exclusive section: removals first, then additions, then pruning and
// sorting. Readers therefore see either the old tree or the new one.
//
// [TreeLoader] resolves playlist entries against the tree and [Count]
// summarizes a subtree; both only need a shared guard.
package updater
