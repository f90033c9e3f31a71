// Package world is the host: the global name/value scope, the keymap
// and atom tables, the special-command registry, and the load-path
// chain a running script sees as its outermost Context (spec §4.7,
// §5's World). Grounded on db/store.go's mutex-guarded maps and
// server/server.go's top-level wiring of store + scheduler +
// registries, generalized from "object database" to this spec's
// narrower host surface.
package world

import (
	"fmt"
	"sync"

	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// Options configures a World the way server/server.go's config struct
// configures the teacher's listener: constructed by the host, passed
// once to New, never read from flags internally.
type Options struct {
	TickLimit         int
	OptimisationLevel int
	LoadPath          []string
}

func DefaultOptions() Options {
	return Options{TickLimit: 100000, OptimisationLevel: 1, LoadPath: []string{"."}}
}

// AtomTable is a bidirectional string<->int interning table, grounded
// on db.Store's object-ID allocation pattern generalized from dbrefs to
// arbitrary interned strings (spec's "Atom" host handle).
type AtomTable struct {
	mu      sync.RWMutex
	byName  map[string]int32
	byID    []string
}

func NewAtomTable() *AtomTable {
	return &AtomTable{byName: map[string]int32{}}
}

func (t *AtomTable) Intern(name string) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := int32(len(t.byID))
	t.byID = append(t.byID, name)
	t.byName[name] = id
	return id
}

func (t *AtomTable) Name(id int32) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || int(id) >= len(t.byID) {
		return "", false
	}
	return t.byID[id], true
}

// Keymap is a named, ordered string->Value table created by
// CreateKeymap and addressed by UseKeymap (spec's Supplemented host
// command family).
type Keymap struct {
	Names  *types.NameMap
	Values *types.Segment
}

func NewKeymap() *Keymap {
	return &Keymap{Names: types.NewNameMap(), Values: types.NewSegment()}
}

func (k *Keymap) Get(key string) types.Value {
	idx := k.Names.GetIndexByName(key)
	if idx < 0 {
		return types.Null
	}
	return k.Values.Get(idx)
}

func (k *Keymap) Set(key string, v types.Value) {
	idx := k.Names.AddMaybe(key)
	k.Values.Set(idx, v)
}

// HookTable is a multi-handler registry keyed by event name (spec
// §7's On/RunHook supplement), grounded on eval/verbs.go's
// verb-dispatch-by-name lookup generalized from "verb on an object" to
// "handlers registered under an event name".
type HookTable struct {
	mu       sync.RWMutex
	names    *types.NameMap
	handlers [][]types.Value // parallel to names, each a CallableValue
}

func NewHookTable() *HookTable {
	return &HookTable{names: types.NewNameMap()}
}

func (h *HookTable) On(event string, handler types.Value) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := h.names.AddMaybe(event)
	for idx >= len(h.handlers) {
		h.handlers = append(h.handlers, nil)
	}
	h.handlers[idx] = append(h.handlers[idx], handler)
}

func (h *HookTable) Handlers(event string) []types.Value {
	h.mu.RLock()
	defer h.mu.RUnlock()
	idx := h.names.GetIndexByName(event)
	if idx < 0 || idx >= len(h.handlers) {
		return nil
	}
	return append([]types.Value(nil), h.handlers[idx]...)
}

// World is the outermost Context/Globals/SpecialRegistry a running
// script sees (spec §5), grounded on db.Store + server/server.go's
// top-level wiring.
type World struct {
	mu sync.RWMutex

	Options Options

	globalNames  *types.NameMap
	globalValues *types.Segment

	Keymaps   map[string]*Keymap
	Atoms     *AtomTable
	Hooks     *HookTable
	Mutexes   map[string]*sync.Mutex
	Files     *FileTable

	specials map[string]vm.SpecialCommand
}

func New(opts Options) *World {
	return &World{
		Options:      opts,
		globalNames:  types.NewNameMap(),
		globalValues: types.NewSegment(),
		Keymaps:      map[string]*Keymap{},
		Atoms:        NewAtomTable(),
		Hooks:        NewHookTable(),
		Mutexes:      map[string]*sync.Mutex{},
		Files:        NewFileTable(),
		specials:     map[string]vm.SpecialCommand{},
	}
}

// GetGlobal/SetGlobal implement vm.Globals: the fallback scope a Frame
// consults once a name resolves to neither a local nor an already
// declared global in the running Process (spec §4.7's lookup chain).
func (w *World) GetGlobal(name string) (types.Value, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	idx := w.globalNames.GetIndexByName(name)
	if idx < 0 {
		return types.Null, false
	}
	return w.globalValues.Get(idx), true
}

func (w *World) SetGlobal(name string, v types.Value) {
	w.mu.Lock()
	defer w.mu.Unlock()
	idx := w.globalNames.AddMaybe(name)
	w.globalValues.Set(idx, v)
}

// RegisterSpecial implements the special-command registration hook
// spec §1 calls for: a host adds a named statement handler without the
// compiler or VM knowing its semantics.
func (w *World) RegisterSpecial(name string, cmd vm.SpecialCommand) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.specials[name] = cmd
}

// Lookup implements vm.SpecialRegistry.
func (w *World) Lookup(name string) (vm.SpecialCommand, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cmd, ok := w.specials[name]
	return cmd, ok
}

func (w *World) Mutex(name string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.Mutexes[name]
	if !ok {
		m = &sync.Mutex{}
		w.Mutexes[name] = m
	}
	return m
}

func (w *World) Keymap(name string) *Keymap {
	w.mu.Lock()
	defer w.mu.Unlock()
	k, ok := w.Keymaps[name]
	if !ok {
		k = NewKeymap()
		w.Keymaps[name] = k
	}
	return k
}

// ResolveLoad searches LoadPath for name the way Load/TryLoad's file
// resolution does, returning the first existing path.
func (w *World) ResolveLoad(name string) (string, error) {
	for _, dir := range w.Options.LoadPath {
		candidate := dir + "/" + name
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("world: %s not found on load path", name)
}
