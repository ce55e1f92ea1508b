package bundle

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/pkg/ioc"
)

type IStore interface{ Get(string) string }

type MemStore struct{}

func (*MemStore) Get(k string) string { return "mem:" + k }

type initCounter struct{ calls int }

func mustBytes(t *testing.T, m *Manifest, resources map[string][]byte) []byte {
	t.Helper()
	data, err := Bytes(m, resources)
	require.NoError(t, err)
	return data
}

func TestLoadFromBytes_RoundTrip(t *testing.T) {
	manifest := &Manifest{
		Identity: "example.com/store@v1.0.0",
		Types: []TypeSpec{
			{Name: "IStore", Kind: KindInterface},
			{Name: "Store", Kind: KindConcrete, Implements: []string{"IStore"}},
		},
	}
	data := mustBytes(t, manifest, map[string][]byte{
		"config/default.json": []byte(`{"size":1}`),
		"deps/child.iocm":     []byte("nested"),
	})

	m, err := NewLoader().LoadFromBytes(data, nil)
	require.NoError(t, err)

	assert.Equal(t, "example.com/store@v1.0.0", m.Identity())
	assert.Equal(t, []string{"config/default.json", "deps/child.iocm"}, m.Resources())
	require.Len(t, m.Types(), 2)
	assert.True(t, m.Types()[0].IsInterface())
	assert.Equal(t, "example.com/store@v1.0.0#Store", m.Types()[1].FullName())
	assert.Nil(t, m.Types()[1].Type())
	assert.Nil(t, m.Types()[1].Initializer())

	rc, err := m.OpenResource("config/default.json")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":1}`, string(body))

	rc, err = m.OpenResource("missing")
	assert.NoError(t, err)
	assert.Nil(t, rc)
}

func TestLoadFromBytes_Errors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		_, err := NewLoader().LoadFromBytes([]byte("garbage"), nil)
		assert.True(t, errors.IsLoad(err))
	})

	t.Run("no manifest", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		_, err := zw.Create("readme.txt")
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = NewLoader().LoadFromBytes(buf.Bytes(), nil)
		assert.Equal(t, errors.ManifestErrorCode, errors.CodeOf(err))
	})

	t.Run("schema violation", func(t *testing.T) {
		data := mustBytes(t, &Manifest{Identity: "example.com/a", Types: []TypeSpec{{Name: "1bad", Kind: KindConcrete}}}, nil)
		_, err := NewLoader().LoadFromBytes(data, nil)
		require.Error(t, err)
		assert.Equal(t, errors.ManifestErrorCode, errors.CodeOf(err))
		assert.Contains(t, err.Error(), "/types/0/name")
	})

	t.Run("missing identity", func(t *testing.T) {
		data := mustBytes(t, &Manifest{}, nil)
		_, err := NewLoader().LoadFromBytes(data, nil)
		assert.Equal(t, errors.ManifestErrorCode, errors.CodeOf(err))
	})

	t.Run("unknown binding", func(t *testing.T) {
		data := mustBytes(t, &Manifest{Identity: "example.com/a", Types: []TypeSpec{
			{Name: "Store", Kind: KindConcrete, Binding: "example.com/nowhere.Store"},
		}}, nil)
		_, err := NewLoader().LoadFromBytes(data, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not exported by the catalog")
	})

	t.Run("binding kind mismatch", func(t *testing.T) {
		catalog := ioc.NewCatalog()
		store := ioc.Export[MemStore](catalog)
		data := mustBytes(t, &Manifest{Identity: "example.com/a", Types: []TypeSpec{
			{Name: "IStore", Kind: KindInterface, Binding: store.FullName()},
		}}, nil)
		_, err := NewLoader(WithCatalog(catalog)).LoadFromBytes(data, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match kind")
	})
}

func TestLoader_CatalogBinding(t *testing.T) {
	counter := &initCounter{}
	catalog := ioc.NewCatalog()
	iface := ioc.Interface[IStore]()
	catalog.Export(iface)
	store := ioc.Export[MemStore](catalog, ioc.WithInitializer(func(ioc.Container) error {
		counter.calls++
		return nil
	}))

	data := mustBytes(t, &Manifest{Identity: "example.com/a", Types: []TypeSpec{
		{Name: "IStore", Kind: KindInterface, Binding: iface.FullName()},
		{Name: "Store", Kind: KindConcrete, Binding: store.FullName()},
	}}, nil)

	m, err := NewLoader(WithCatalog(catalog)).LoadFromBytes(data, nil)
	require.NoError(t, err)

	declaredIface, declaredStore := m.Types()[0], m.Types()[1]
	assert.Equal(t, iface.Type(), declaredIface.Type())
	assert.Equal(t, store.Type(), declaredStore.Type())

	// No implements list is needed when both sides are Go types.
	assert.True(t, declaredIface.AssignableFrom(declaredStore))

	require.NotNil(t, declaredStore.Initializer())
	require.NoError(t, declaredStore.Initializer()(nil))
	assert.Equal(t, 1, counter.calls)
}

func TestDeclaredType_AssignableFromIsTransitive(t *testing.T) {
	data := mustBytes(t, &Manifest{Identity: "example.com/a", Types: []TypeSpec{
		{Name: "IService", Kind: KindInterface},
		{Name: "IStore", Kind: KindInterface, Extends: []string{"IService"}},
		{Name: "ICache", Kind: KindInterface},
		{Name: "Store", Kind: KindConcrete, Implements: []string{"IStore", "IMissing"}},
	}}, nil)

	m, err := NewLoader().LoadFromBytes(data, nil)
	require.NoError(t, err)
	service, iStore, cache, store := m.Types()[0], m.Types()[1], m.Types()[2], m.Types()[3]

	assert.True(t, iStore.AssignableFrom(store))
	assert.True(t, service.AssignableFrom(store), "implements reaches IService through IStore")
	assert.True(t, service.AssignableFrom(iStore))
	assert.True(t, service.AssignableFrom(service))
	assert.False(t, cache.AssignableFrom(store))
	assert.False(t, iStore.AssignableFrom(service))
	assert.False(t, store.AssignableFrom(iStore), "concrete types accept only themselves")
	assert.True(t, store.AssignableFrom(store))
	assert.False(t, iStore.AssignableFrom(nil))
}

func TestDeclaredType_ExtendsCycleTerminates(t *testing.T) {
	data := mustBytes(t, &Manifest{Identity: "example.com/a", Types: []TypeSpec{
		{Name: "IA", Kind: KindInterface, Extends: []string{"IB"}},
		{Name: "IB", Kind: KindInterface, Extends: []string{"IA"}},
		{Name: "IC", Kind: KindInterface},
	}}, nil)

	m, err := NewLoader().LoadFromBytes(data, nil)
	require.NoError(t, err)
	assert.False(t, m.Types()[2].AssignableFrom(m.Types()[0]))
}

func TestDeclaredType_Marker(t *testing.T) {
	data := mustBytes(t, &Manifest{Identity: "example.com/a", Types: []TypeSpec{
		{Name: "IStore", Kind: KindInterface},
		{Name: "Store", Kind: KindConcrete, Marker: "ioc::initialize -Interface=IStore -Name=primary"},
		{Name: "Boot", Kind: KindConcrete, Marker: "ioc::initialize"},
		{Name: "Plain", Kind: KindConcrete},
		{Name: "Broken", Kind: KindConcrete, Marker: "ioc::initialize -Interface=IMissing"},
		{Name: "Wrong", Kind: KindConcrete, Marker: "ioc::initialize -Interface=Plain"},
	}}, nil)

	m, err := NewLoader().LoadFromBytes(data, nil)
	require.NoError(t, err)
	types := m.Types()

	marker, err := types[1].Marker()
	require.NoError(t, err)
	require.NotNil(t, marker)
	assert.Same(t, types[0], marker.Interface)
	assert.Equal(t, "primary", marker.Name)

	marker, err = types[2].Marker()
	require.NoError(t, err)
	require.NotNil(t, marker)
	assert.Nil(t, marker.Interface)

	marker, err = types[3].Marker()
	assert.NoError(t, err)
	assert.Nil(t, marker)

	_, err = types[4].Marker()
	assert.Equal(t, errors.ManifestErrorCode, errors.CodeOf(err))

	_, err = types[5].Marker()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an interface")
}

func TestModule_CrossModuleReferences(t *testing.T) {
	core := &Manifest{Identity: "example.com/core@v1.0.0", Types: []TypeSpec{
		{Name: "IService", Kind: KindInterface},
	}}
	plugin := &Manifest{Identity: "example.com/plugin@v1.0.0", Types: []TypeSpec{
		{
			Name:       "Plugin",
			Kind:       KindConcrete,
			Implements: []string{"example.com/core@v1.0.0#IService"},
			Marker:     "ioc::initialize -Interface=example.com/core@v1.0.0#IService",
		},
	}}

	t.Run("path-loaded table", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, WriteFile(filepath.Join(dir, "core.iocm"), core, nil))
		require.NoError(t, WriteFile(filepath.Join(dir, "plugin.iocm"), plugin, nil))

		l := NewLoader()
		coreMod, err := l.LoadFromPath(filepath.Join(dir, "core.iocm"), nil)
		require.NoError(t, err)
		pluginMod, err := l.LoadFromPath(filepath.Join(dir, "plugin.iocm"), nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "plugin.iocm"), pluginMod.(*Module).Source())

		marker, err := pluginMod.Types()[0].Marker()
		require.NoError(t, err)
		assert.Same(t, coreMod.Types()[0], marker.Interface)
		assert.True(t, coreMod.Types()[0].AssignableFrom(pluginMod.Types()[0]))
	})

	t.Run("byte-loaded table", func(t *testing.T) {
		l := NewLoader()
		coreMod, err := l.LoadFromBytes(mustBytes(t, core, nil), ioc.NoResolver)
		require.NoError(t, err)
		pluginMod, err := l.LoadFromBytes(mustBytes(t, plugin, nil), ioc.NoResolver)
		require.NoError(t, err)

		marker, err := pluginMod.Types()[0].Marker()
		require.NoError(t, err)
		assert.Same(t, coreMod.Types()[0], marker.Interface)
	})

	t.Run("resolver fallback", func(t *testing.T) {
		coreMod, err := NewLoader().LoadFromBytes(mustBytes(t, core, nil), nil)
		require.NoError(t, err)

		l := NewLoader()

		resolver := ioc.ResolverFunc(func(identity string) (ioc.Module, bool) {
			if identity == coreMod.Identity() {
				return coreMod, true
			}
			return nil, false
		})
		pluginMod, err := l.LoadFromBytes(mustBytes(t, plugin, nil), resolver)
		require.NoError(t, err)

		marker, err := pluginMod.Types()[0].Marker()
		require.NoError(t, err)
		assert.Equal(t, "example.com/core@v1.0.0#IService", marker.Interface.FullName())
	})

	t.Run("unresolved", func(t *testing.T) {
		pluginMod, err := NewLoader().LoadFromBytes(mustBytes(t, plugin, nil), ioc.NoResolver)
		require.NoError(t, err, "references resolve lazily")

		_, err = pluginMod.Types()[0].Marker()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not loaded")
	})
}

func TestLoader_Extension(t *testing.T) {
	assert.Equal(t, ".iocm", NewLoader().Extension())
	assert.Equal(t, ".plug", NewLoader(WithExtension("plug")).Extension())
	assert.Equal(t, ".plug", NewLoader(WithExtension(".plug")).Extension())
}

func TestWrite_RejectsReservedName(t *testing.T) {
	_, err := Bytes(&Manifest{Identity: "example.com/a"}, map[string][]byte{ManifestName: nil})
	assert.True(t, errors.IsPrecondition(err))

	_, err = Bytes(nil, nil)
	assert.True(t, errors.IsPrecondition(err))
}

func TestWrite_IsDeterministic(t *testing.T) {
	m := &Manifest{Identity: "example.com/a"}
	res := map[string][]byte{"b": []byte("2"), "a": []byte("1"), "c": []byte("3")}
	assert.Equal(t, mustBytes(t, m, res), mustBytes(t, m, res))
}
