package graph

import (
	"os"
	"strings"

	"github.com/forgebuild/corebuild/internal/base"
)

// SettingsNode carries global build configuration: environment variables,
// the cache path/plugin, the worker list, and the connection limit (spec.md
// §4.2 "SettingsNode"), grounded on original_source/SettingsNode.cpp.
type SettingsNode struct {
	BaseNode

	Environment           []string
	CachePath             string
	CachePluginDLL        string
	Workers               []string
	WorkerConnectionLimit uint32

	cachePathFromEnv string
	environmentBlock []byte
	libEnvVar        string
}

func NewSettingsNode(name Name) *SettingsNode {
	n := &SettingsNode{
		BaseNode:              NewBaseNode(name, SETTINGS_NODE, FLAG_NONE),
		WorkerConnectionLimit: 15,
	}
	n.cachePathFromEnv = os.Getenv("FASTBUILD_CACHE_PATH")
	return n
}

func (n *SettingsNode) IsAFile() bool { return false }

func (n *SettingsNode) Initialize(g *NodeGraph) error {
	if n.CachePluginDLL != "" {
		base.LogInfo(LogGraph, "CachePluginDLL: %q", n.CachePluginDLL)
	}
	if len(n.Environment) > 0 {
		n.processEnvironment(n.Environment)
	}
	return nil
}

func (n *SettingsNode) DoDynamicDependencies(g *NodeGraph, forceClean bool) error { return nil }

func (n *SettingsNode) DoBuild(ctx BuildContext) BuildResult {
	n.SetStamp(1)
	return ResultOk
}
func (n *SettingsNode) DoBuild2(ctx BuildContext) BuildResult { return ResultOk }

// GetCachePath returns FASTBUILD_CACHE_PATH when set, else the configured
// CachePath; the environment variable always takes priority.
func (n *SettingsNode) GetCachePath() string {
	if n.cachePathFromEnv != "" {
		return n.cachePathFromEnv
	}
	return n.CachePath
}

func (n *SettingsNode) GetCachePluginDLL() string { return n.CachePluginDLL }

// LibEnvVar is the value of a "LIB=" entry pulled out of Environment during
// processEnvironment, handed off separately for linker use.
func (n *SettingsNode) LibEnvVar() string { return n.libEnvVar }

// EnvironmentBlock is the flattened representation handed to spawned child
// processes. On Windows-like hosts it is a contiguous double-NUL-terminated
// buffer ("KEY=VALUE\0...\0\0"); elsewhere it's left for callers to use
// Environment directly via exec.Cmd.Env, which expects one entry per slice
// element rather than a packed block.
func (n *SettingsNode) EnvironmentBlock() []byte { return n.environmentBlock }

func (n *SettingsNode) processEnvironment(envStrings []string) {
	var libEnvVar string
	for _, s := range envStrings {
		if strings.HasPrefix(s, "LIB=") {
			libEnvVar = s[len("LIB="):]
		}
	}
	n.libEnvVar = libEnvVar

	if base.CurrentHost() != base.HOST_WINDOWS {
		return
	}

	var buf []byte
	for _, s := range envStrings {
		buf = append(buf, []byte(s)...)
		buf = append(buf, 0)
	}
	buf = append(buf, 0) // final double-null
	n.environmentBlock = buf
}

func (n *SettingsNode) Save(ar base.Archive) {
	n.saveBase(ar)
	ar.StringSlice(&n.Environment)
	ar.String(&n.CachePath)
	ar.String(&n.CachePluginDLL)
	ar.StringSlice(&n.Workers)
	ar.Uint32(&n.WorkerConnectionLimit)
}

func (n *SettingsNode) Load(ar base.Archive) error {
	if _, _, err := n.loadBase(ar); err != nil {
		return err
	}
	ar.StringSlice(&n.Environment)
	ar.String(&n.CachePath)
	ar.String(&n.CachePluginDLL)
	ar.StringSlice(&n.Workers)
	ar.Uint32(&n.WorkerConnectionLimit)
	return ar.Error()
}
