package event

import (
	"errors"
	"testing"

	"github.com/keshon/slashkit/pkg/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	on   map[string][]func(string)
	once map[string][]func(string)
	err  error
}

func newFakeSource() *fakeSource {
	return &fakeSource{on: map[string][]func(string){}, once: map[string][]func(string){}}
}

func (f *fakeSource) On(name string, handler any) error {
	if f.err != nil {
		return f.err
	}
	f.on[name] = append(f.on[name], handler.(func(string)))
	return nil
}

func (f *fakeSource) Once(name string, handler any) error {
	if f.err != nil {
		return f.err
	}
	f.once[name] = append(f.once[name], handler.(func(string)))
	return nil
}

func (f *fakeSource) emit(name, payload string) {
	for _, h := range f.on[name] {
		h(payload)
	}
	pending := f.once[name]
	delete(f.once, name)
	for _, h := range pending {
		h(payload)
	}
}

type lifecycle struct {
	seen []string
}

func (l *lifecycle) OnReady(p string)   { l.seen = append(l.seen, "ready "+p) }
func (l *lifecycle) OnMessage(p string) { l.seen = append(l.seen, "message "+p) }

type otherHandler struct{}

var (
	lifecycleClass = decl.ClassOf[lifecycle]("lifecycle")
	otherClass     = decl.ClassOf[otherHandler]("other")
)

func lifecycleStore() *decl.Store {
	s := decl.NewStore()
	DeclareHandler(s, lifecycleClass)
	DeclareOn(s, lifecycleClass, "OnReady", Method("ready", func(l *lifecycle) any { return l.OnReady }).OnlyOnce())
	DeclareOn(s, lifecycleClass, "OnMessage", Method("message", func(l *lifecycle) any { return l.OnMessage }))
	return s
}

func TestLoadAndAttach(t *testing.T) {
	reg, err := Load(lifecycleStore(), []decl.Class{lifecycleClass})
	require.NoError(t, err)

	bindings := reg.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "ready", bindings[0].Name)
	assert.True(t, bindings[0].Once)
	assert.Equal(t, "OnReady", bindings[0].Method)
	assert.Equal(t, "message", bindings[1].Name)
	assert.False(t, bindings[1].Once)
	assert.Same(t, bindings[0].Owner, bindings[1].Owner)

	src := newFakeSource()
	require.NoError(t, Attach(src, bindings))

	src.emit("ready", "1")
	src.emit("ready", "2")
	src.emit("message", "a")
	src.emit("message", "b")

	owner := bindings[0].Owner.(*lifecycle)
	assert.Equal(t, []string{"ready 1", "message a", "message b"}, owner.seen)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(s *decl.Store)
		classes []decl.Class
		wantErr error
	}{
		{
			name:    "unmarked handler",
			setup:   func(s *decl.Store) {},
			classes: []decl.Class{lifecycleClass},
			wantErr: ErrMissingDeclaration,
		},
		{
			name: "handler carries a foreign record",
			setup: func(s *decl.Store) {
				s.Define(KindHandler, lifecycleClass.Key, "yes")
			},
			classes: []decl.Class{lifecycleClass},
			wantErr: ErrMalformedDeclaration,
		},
		{
			name: "method bound to another type",
			setup: func(s *decl.Store) {
				DeclareHandler(s, otherClass)
				DeclareOn(s, otherClass, "OnReady", Method("ready", func(l *lifecycle) any { return l.OnReady }))
			},
			classes: []decl.Class{otherClass},
			wantErr: ErrMalformedDeclaration,
		},
		{
			name: "declaration without binding",
			setup: func(s *decl.Store) {
				DeclareHandler(s, otherClass)
				DeclareOn(s, otherClass, "OnReady", Info{Name: "ready"})
			},
			classes: []decl.Class{otherClass},
			wantErr: ErrMalformedDeclaration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := decl.NewStore()
			tt.setup(s)
			reg, err := Load(s, tt.classes)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, reg)
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	info := Method("ready", func(l *lifecycle) any { return l.OnReady })

	err := reg.RegisterEvent(lifecycleClass.Key, "OnReady", info)
	assert.ErrorIs(t, err, ErrOutsideOwner)
	assert.Empty(t, reg.Bindings())

	require.NoError(t, reg.RegisterHandler(lifecycleClass))
	require.NoError(t, reg.RegisterHandler(lifecycleClass))
	assert.True(t, reg.IsRegistered(lifecycleClass.Key))

	require.NoError(t, reg.RegisterEvent(lifecycleClass.Key, "OnReady", info))
	require.NoError(t, reg.RegisterEvent(lifecycleClass.Key, "OnReady", info.OnlyOnce()))
	bindings := reg.Bindings()
	require.Len(t, bindings, 1)
	assert.True(t, bindings[0].Once)
}

func TestAttachError(t *testing.T) {
	reg, err := Load(lifecycleStore(), []decl.Class{lifecycleClass})
	require.NoError(t, err)

	src := newFakeSource()
	src.err = errors.New("closed")
	err = Attach(src, reg.Bindings())
	assert.ErrorIs(t, err, src.err)
}
