/*
Package library syncs the on-disk videos directory into the video store.

Operators stage content by copying files into the directory. An initial
scan registers anything already present, then an fsnotify watch picks up
new files as they land. Registration is debounced so a file still being
copied is only recorded once its writes quiet down, and it is keyed on the
file path so repeated events never create duplicate records.

Only media extensions (.mp4, .mov, .avi, .m4v) are registered; everything
else in the directory is ignored.
*/
package library
