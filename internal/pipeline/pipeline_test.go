package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialcore/internal/cldb"
	"dialcore/internal/config"
	"dialcore/internal/dialogue"
)

func TestBuildDefaultPipeline(t *testing.T) {
	p, err := DefaultRegistry().Build(config.DefaultPipeline(), Deps{DB: cldb.Builtin()})
	require.NoError(t, err)
	assert.Equal(t, []string{PublicTransportNLU, RuleDST}, p.Names())

	d := dialogue.New()
	require.NoError(t, p.Run(context.Background(), d, "chci jet z Prahy"))
	assert.Equal(t, "inform(from_city=Praha,task=find_connection)", d.NLU.String())
	assert.InDelta(t, 1.0, d.State()["from_city"]["Praha"], 1e-9)
	assert.InDelta(t, 1.0, d.State()["task"]["find_connection"], 1e-9)
}

func TestBuildUnknownComponent(t *testing.T) {
	cfg := config.PipelineConfig{Components: []config.ComponentSpec{{Name: "nlu.missing"}}}
	_, err := DefaultRegistry().Build(cfg, Deps{})
	assert.True(t, errors.Is(err, ErrUnknownComponent), "err=%v", err)
}

func TestRegisterDuplicate(t *testing.T) {
	r := DefaultRegistry()
	err := r.Register(RuleDST, newRuleDST)
	assert.Error(t, err)
	assert.Equal(t, []string{KeywordNLU, PublicTransportNLU, RuleDST}, r.Names())
}

func TestKeywordPipeline(t *testing.T) {
	cfg := config.PipelineConfig{Components: []config.ComponentSpec{{Name: KeywordNLU}, {Name: RuleDST}}}
	p, err := DefaultRegistry().Build(cfg, Deps{})
	require.NoError(t, err)

	d := dialogue.New()
	require.NoError(t, p.Run(context.Background(), d, "hi there"))
	assert.Equal(t, "greet()", d.NLU.String())
	assert.Empty(t, d.State())
}

func TestPublicTransportOverridesOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utt2da.tsv")
	require.NoError(t, os.WriteFile(path, []byte("nazdárek\thello()\n"), 0o644))
	cfg := config.PipelineConfig{Components: []config.ComponentSpec{
		{Name: PublicTransportNLU, Options: map[string]string{"utt2da": path}},
	}}
	p, err := DefaultRegistry().Build(cfg, Deps{})
	require.NoError(t, err)

	d := dialogue.New()
	require.NoError(t, p.Run(context.Background(), d, "Nazdárek"))
	assert.Equal(t, "hello()", d.NLU.String())

	cfg.Components[0].Options["utt2da"] = filepath.Join(t.TempDir(), "missing.tsv")
	_, err = DefaultRegistry().Build(cfg, Deps{})
	assert.Error(t, err)
}

func TestRunHonorsCancellation(t *testing.T) {
	p, err := DefaultRegistry().Build(config.DefaultPipeline(), Deps{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = p.Run(ctx, dialogue.New(), "ahoj")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadRuntime(t *testing.T) {
	dir := t.TempDir()
	utt2da := filepath.Join(dir, "utt2da.tsv")
	require.NoError(t, os.WriteFile(utt2da, []byte("# overrides\nhromská rána\tnull()\n"), 0o644))
	cfgPath := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("components:\n  - nlu.public_transport_cs\n  - dst.rule\n"), 0o644))

	rt, err := Load(Sources{PipelinePath: cfgPath, Utt2DAPath: utt2da}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{PublicTransportNLU, RuleDST}, rt.Pipeline.Names())

	res := rt.Parser.Parse("Hromská rána")
	assert.True(t, res.Override)
	assert.Equal(t, "null()", res.Act.String())

	d := dialogue.New()
	require.NoError(t, rt.Pipeline.Run(context.Background(), d, "hromská rána"))
	assert.Equal(t, "null()", d.NLU.String())

	_, err = Load(Sources{Utt2DAPath: filepath.Join(dir, "missing.tsv")}, nil)
	assert.Error(t, err)
}

func TestWithDefaultOptionKeepsExplicitValue(t *testing.T) {
	cfg := config.PipelineConfig{Components: []config.ComponentSpec{
		{Name: PublicTransportNLU, Options: map[string]string{"utt2da": "mine.tsv"}},
		{Name: PublicTransportNLU},
		{Name: RuleDST},
	}}
	out := withDefaultOption(cfg, PublicTransportNLU, "utt2da", "default.tsv")
	assert.Equal(t, "mine.tsv", out.Components[0].Option("utt2da", ""))
	assert.Equal(t, "default.tsv", out.Components[1].Option("utt2da", ""))
	assert.Empty(t, out.Components[2].Options)
	assert.Nil(t, cfg.Components[1].Options)
}
