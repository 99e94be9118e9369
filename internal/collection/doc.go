// Package collection keeps a local reflection of the shared album collection
// consistent with the remote store.
//
// # Controller
//
// The Controller is the only writer of the canonical collection:
//
//	ctrl := collection.NewController(st, sorting.New("en"), func(n collection.Notice) {
//	    fmt.Println(n.Message)
//	})
//
//	if err := ctrl.Reload(ctx); err != nil {
//	    // the previous collection (possibly empty) is still shown
//	}
//
//	err := ctrl.Create(ctx, model.Fields{Title: "Blue", Artist: "Joni Mitchell", Rating: 5})
//
// # Read after write
//
// Create, Update and Delete never patch the local collection. Once the store
// acknowledges a write the Controller reloads the full collection inside the
// same busy window, so the reload always observes its own write. If that
// reload fails the error matches ErrReloadFailed and the collection keeps the
// pre-write snapshot until the next successful reload.
//
// # Busy gate
//
// At most one store call is in flight. An operation started while another is
// running fails immediately with gate.ErrBusy; it is not queued. Loading and
// Saving expose the reason so the presentation layer can disable its
// controls.
//
// # Notices
//
// Failures are reported through the notice callback as LevelError notices
// and returned as errors; nothing is retried automatically.
package collection
