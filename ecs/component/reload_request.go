package component

// ReloadRequest is a marker component used to ask the game loop to rebuild
// the current scene. Scripts create a short-lived entity carrying it.
type ReloadRequest struct{}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
