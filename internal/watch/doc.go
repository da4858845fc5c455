// Package watch converts QRDA-III documents as they land in a directory.
//
// Events from fsnotify are debounced per file: a file is converted once no
// event has arrived for the debounce window and its size and modification
// time have stopped changing. Ready files are converted together as one
// batch run. A file lock keeps a second watcher from sharing the same lock
// path.
package watch
