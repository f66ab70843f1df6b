package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/scarsofash/internal/game/element"
	"github.com/cory-johannsen/scarsofash/internal/scripting"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

func loadAIScripts(t *testing.T) *scripting.Manager {
	t.Helper()
	mgr, _ := newTestManager(t)
	mgr.Effectiveness = func(a, d string) float64 {
		return element.Effectiveness(element.Type(a), element.Type(d))
	}
	_, err := mgr.LoadTree(filepath.Join(repoRoot(t), "content", "scripts", "ai"), 0)
	require.NoError(t, err)
	return mgr
}

func TestWardenPrefersShatteredLight(t *testing.T) {
	mgr := loadAIScripts(t)
	tests := map[element.Type]lua.LValue{
		element.Fire:  lua.LTrue,
		element.Grass: lua.LTrue,
		element.Water: lua.LFalse,
		element.Dark:  lua.LFalse,
		element.Light: lua.LFalse,
	}
	for typ, want := range tests {
		ret, err := mgr.CallHook("hollowWarden", "warden_prefers_shattered_light",
			lua.LString(typ), lua.LNumber(0.5), lua.LNumber(2))
		require.NoError(t, err)
		assert.Equal(t, want, ret, "player type %s", typ)
	}
}

func TestFinisherWindow_GlobalFallback(t *testing.T) {
	mgr := loadAIScripts(t)
	ret, err := mgr.CallHook("obsidianHound", "finisher_window", lua.LString("fire"), lua.LNumber(0.2), lua.LNumber(1))
	require.NoError(t, err)
	assert.Equal(t, lua.LTrue, ret)
}

func TestProperty_FinisherWindowMatchesThreshold(t *testing.T) {
	mgr := loadAIScripts(t)
	rapid.Check(t, func(rt *rapid.T) {
		hp := rapid.Float64Range(0, 1).Draw(rt, "hp")
		ret, err := mgr.CallHook(scripting.GlobalScope, "finisher_window", lua.LString("water"), lua.LNumber(hp), lua.LNumber(1))
		require.NoError(rt, err)
		assert.Equal(rt, lua.LBool(hp < 0.25), ret)
	})
}

func TestSpeciesScopeSeesGlobalHooks(t *testing.T) {
	mgr := loadAIScripts(t)
	ret, err := mgr.CallHook("hollowWarden", "finisher_window", lua.LString("water"), lua.LNumber(0.1), lua.LNumber(2))
	require.NoError(t, err)
	assert.Equal(t, lua.LTrue, ret)
}
