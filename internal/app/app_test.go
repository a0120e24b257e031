package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jxucoder/promptgen/model"
	"github.com/jxucoder/promptgen/prompt"
)

type fakeAcquirer struct {
	out     string
	err     error
	calls   int
	gotRoot string
	gotKey  string
}

func (f *fakeAcquirer) Acquire(ctx context.Context, preset, root string) (string, error) {
	f.calls++
	f.gotKey = preset
	f.gotRoot = root
	return f.out, f.err
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func TestResolveNoCommand(t *testing.T) {
	_, err := Resolve(model.Args{}, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestResolvePromptBecomesGeneric(t *testing.T) {
	res, err := Resolve(model.Args{Prompt: "explain the build"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Generic{Prompt: "explain the build"}, res.Command)
	assert.Equal(t, "explain the build", res.Context.Description)
	assert.True(t, res.Scan)
}

func TestResolveExplicitCommandWins(t *testing.T) {
	res, err := Resolve(model.Args{
		Prompt:  "ignored",
		Command: model.Refactor{Goal: "split main"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.KindRefactor, res.Command.Kind())
	assert.Equal(t, "split main", res.Context.Description)
}

func TestResolveStdinBeatsDescription(t *testing.T) {
	res, err := Resolve(model.Args{
		Stdin:   true,
		Command: model.Architecture{Description: "from flag", Context: "use Postgres"},
	}, strings.NewReader("\n  from stdin  \n\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", res.Context.Description)
	assert.Equal(t, "use Postgres", res.Context.Constraints)
}

func TestResolveEmptyStdinDefaults(t *testing.T) {
	res, err := Resolve(model.Args{Stdin: true, Command: model.Architecture{}}, strings.NewReader("   \n"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDescription, res.Context.Description)
}

func TestResolveStdinFailure(t *testing.T) {
	_, err := Resolve(model.Args{Stdin: true, Command: model.Architecture{}}, failingReader{})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestResolveDefaultDescription(t *testing.T) {
	res, err := Resolve(model.Args{Command: model.Architecture{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDescription, res.Context.Description)
	assert.False(t, res.Scan)
}

func TestResolveReadmeDetailsAreConstraints(t *testing.T) {
	res, err := Resolve(model.Args{Command: model.Readme{Style: "Playful", Details: "mention Docker"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mention Docker", res.Context.Constraints)
	assert.Equal(t, model.DefaultDescription, res.Context.Description)
}

func TestNeedsScan(t *testing.T) {
	assert.False(t, NeedsScan(model.Architecture{}))
	for _, cmd := range []model.Command{model.Generic{}, model.CodeReview{}, model.Refactor{}, model.Readme{}} {
		assert.True(t, NeedsScan(cmd), cmd.Kind())
	}
}

func TestRunSkipsScanForArchitecture(t *testing.T) {
	acq := &fakeAcquirer{out: "should not appear"}
	r := &Runner{Acquirer: acq}
	args := model.Args{Command: model.Architecture{Description: "a cache"}}

	res, err := Resolve(args, nil)
	require.NoError(t, err)
	out, err := r.Run(context.Background(), args, res)
	require.NoError(t, err)

	assert.Zero(t, acq.calls)
	assert.Contains(t, out, "\"a cache\"")
	assert.NotContains(t, out, "should not appear")
}

func TestRunScansDirOrRepo(t *testing.T) {
	acq := &fakeAcquirer{out: "<project/>"}
	var status []string
	r := &Runner{
		Acquirer: acq,
		Renderer: prompt.New("Go"),
		Status:   func(format string, a ...any) { status = append(status, format) },
	}

	args := model.Args{Preset: "go", Dir: "/src/app", Command: model.CodeReview{Focus: "errors"}}
	res, err := Resolve(args, nil)
	require.NoError(t, err)
	out, err := r.Run(context.Background(), args, res)
	require.NoError(t, err)

	assert.Equal(t, "/src/app", acq.gotRoot)
	assert.Equal(t, "go", acq.gotKey)
	assert.Contains(t, out, "```xml\n<project/>\n```")
	assert.Contains(t, out, "**Go**")
	assert.Len(t, status, 1)

	args.Repo = "acme/widget"
	_, err = r.Run(context.Background(), args, res)
	require.NoError(t, err)
	assert.Equal(t, "acme/widget", acq.gotRoot)
}

func TestRunDefaultsToCurrentDir(t *testing.T) {
	acq := &fakeAcquirer{out: "x"}
	args := model.Args{Prompt: "hi"}
	res, err := Resolve(args, nil)
	require.NoError(t, err)

	_, err = (&Runner{Acquirer: acq}).Run(context.Background(), args, res)
	require.NoError(t, err)
	assert.Equal(t, ".", acq.gotRoot)
}

func TestRunPropagatesAcquireError(t *testing.T) {
	acq := &fakeAcquirer{err: errors.New("scan exploded")}
	args := model.Args{Command: model.Readme{}}
	res, err := Resolve(args, nil)
	require.NoError(t, err)

	out, err := (&Runner{Acquirer: acq}).Run(context.Background(), args, res)
	assert.Error(t, err)
	assert.Empty(t, out)
}
