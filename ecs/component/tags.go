package component

// Name identifies an entity for reference lookups from prefabs and scripts.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// Tag groups renderers for tag-mode targeting.
type Tag struct {
	Value string
}

var TagComponent = NewComponent[Tag]()
