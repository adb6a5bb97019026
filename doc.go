// Package i3ipc is a client for the i3 window manager's IPC interface.
//
// A Conn sends requests (run a command, query workspaces, outputs, the layout
// tree, marks, bar configuration, version, binding modes or config) and
// decodes the replies into typed values. A Listener subscribes to event
// categories and yields decoded events:
//
//	l, err := i3ipc.Listen(ctx)
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//	if _, err := l.Subscribe(i3ipc.EventWindow); err != nil {
//		return err
//	}
//	for ev, err := range l.Events() {
//		...
//	}
//
// Requests and events use separate connections because i3 interleaves event
// messages with replies on a subscribed socket.
//
// The envelope codec lives in the wire subpackage.
package i3ipc
