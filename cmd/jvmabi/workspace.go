package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"

	"jvmabi/internal/decl"
	"jvmabi/internal/declfile"
	"jvmabi/internal/diag"
	"jvmabi/internal/intrinsics"
	"jvmabi/internal/metadata"
	"jvmabi/internal/observ"
	"jvmabi/internal/project"
	"jvmabi/internal/trace"
)

// workspace is everything a command needs after loading inputs.
type workspace struct {
	manifest   *project.Manifest
	files      []string
	hash       project.Digest
	graph      *decl.Graph
	diags      *diag.Bag
	store      *metadata.Store
	storePath  string
	registry   *intrinsics.Registry
	jobs       int
	noMemo     bool
	maxDiags   int
	timer      *observ.Timer
	showTiming bool
}

// loadWorkspace reads declaration files given as args, or the sources of the
// manifest when args is empty, plus the metadata store.
func loadWorkspace(ctx context.Context, v *viper.Viper, args []string) (*workspace, error) {
	ws := &workspace{
		maxDiags:   v.GetInt(keyMaxDiagnostics),
		timer:      observ.NewTimer(),
		showTiming: v.GetBool(keyTimings),
	}
	span := trace.Start(ctx, trace.ScopeStage, "load")
	phase := ws.timer.Begin("load")

	files := args
	if len(files) == 0 {
		m, err := findManifest(v.GetString(keyManifest))
		if err != nil {
			span.End("no manifest")
			return nil, err
		}
		ws.manifest = m
		applyManifestDefaults(v, m)
		files, err = m.SourceFiles()
		if err != nil {
			span.End("sources")
			return nil, err
		}
	}
	ws.files = files
	ws.jobs = v.GetInt(keyJobs)
	ws.noMemo = v.GetBool(keyNoMemo)
	ws.storePath = v.GetString(keyMetadata)
	ws.registry = intrinsics.New(v.GetStringSlice(keyIntrinsics))
	ws.diags = diag.NewBag(ws.maxDiags)

	hash, err := project.HashFiles(files)
	if err != nil {
		span.End("hash")
		return nil, fmt.Errorf("failed to hash declaration files: %w", err)
	}
	ws.hash = hash

	graph, err := declfile.Load(v.GetString(keyModule), files, ws.diags)
	if err != nil {
		span.End("decode")
		return nil, err
	}
	ws.graph = graph

	if ws.storePath == "" {
		ws.store = metadata.NewStore(graph.Module)
	} else {
		store, found, err := metadata.Load(ws.storePath, graph.Module)
		if err != nil {
			span.End("metadata")
			return nil, err
		}
		ws.store = store
		if found && !store.ModuleHash().IsZero() && store.ModuleHash() != hash {
			ws.diags.Infof(diag.AbiStaleMetadata, ws.storePath,
				fmt.Sprintf("metadata recorded for sources %s, current sources are %s", store.ModuleHash().Short(), hash.Short()))
		}
	}

	note := fmt.Sprintf("%d files, %d classes", len(files), graph.ClassCount())
	ws.timer.End(phase, note)
	span.WithExtra("records", strconv.Itoa(ws.store.Len())).End(note)
	return ws, nil
}

// findManifest resolves --manifest, which may name the file or a directory.
func findManifest(path string) (*project.Manifest, error) {
	if path == "" {
		return project.LoadManifest(".")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if info.IsDir() {
		return project.LoadManifest(path)
	}
	return project.ReadManifest(path)
}

var errNoMetadataPath = errors.New("no metadata path configured (use --metadata or [metadata].path)")

// saveMetadata stamps the store with the current source hash and writes it.
func (ws *workspace) saveMetadata(ctx context.Context) error {
	if ws.storePath == "" {
		return errNoMetadataPath
	}
	span := trace.Start(ctx, trace.ScopeStage, "record")
	phase := ws.timer.Begin("record")
	ws.store.SetModuleHash(ws.hash)
	err := metadata.Save(ws.storePath, ws.store)
	ws.timer.End(phase, ws.storePath)
	span.End(ws.storePath)
	if err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}
