// Package session manages the transient drafts behind the add and edit
// interactions.
//
// A Session has two independent slots, each either Idle or Open:
//
//	s := session.New()
//	s.BeginAdd()
//	s.SetField(session.Add, session.FieldTitle, "Blue")
//	s.SetField(session.Add, session.FieldArtist, "Joni Mitchell")
//	s.SetRating(session.Add, 5)
//	err := s.Commit(ctx, session.Add, ctrl) // Idle on success, still Open on failure
//
// Opening an edit never touches the add slot and vice versa, but only one
// album can be edited at a time: BeginEdit replaces any other open edit.
package session
