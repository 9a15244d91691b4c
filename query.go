package lockbox

import "fmt"

// Query modifiers, the part of a query path after "?".
const (
	// KeyQueryMod reads the exact key in the query data.
	KeyQueryMod = ""
	// PrefixQueryMod reads every key starting with the query data.
	PrefixQueryMod = "prefix"
)

// Model is a key with its stored value.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair builds a Model.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries for one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of an extension to a router.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to handlers.
type QueryRouter map[string]QueryHandler

// NewQueryRouter returns an empty router.
func NewQueryRouter() QueryRouter {
	return make(QueryRouter)
}

// RegisterAll calls every register with r.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register routes path to h. Routing a path twice panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, taken := r[path]; taken {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r[path] = h
}

// Handler returns the handler of path, nil if there is none.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r[path]
}
