package ecs

import (
	"fmt"
	"log/slog"
)

// Entity packs a slot index in the low 32 bits and the slot's generation in
// the high 32 bits. The zero Entity never refers to a live entity.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// String formats e as index/generation.
func (e Entity) String() string {
	if e == 0 {
		return "none"
	}
	return fmt.Sprintf("%d/%d", e.id(), e.generation())
}

func (e Entity) LogValue() slog.Value {
	return slog.StringValue(e.String())
}

func (e Entity) Valid() bool {
	return e.id() != 0
}
