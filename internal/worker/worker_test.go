package worker

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/flatten"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/merge"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/split"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func inputs(pairs ...string) []Input {
	var in []Input
	for i := 0; i+1 < len(pairs); i += 2 {
		in = append(in, Input{Name: pairs[i], Data: []byte(pairs[i+1])})
	}
	return in
}

func compact() *formatter.Formatter {
	return &formatter.Formatter{}
}

func TestRun_Merge(t *testing.T) {
	defer goleak.VerifyNone(t)

	task := NewMergeTask(merge.DefaultOptions(), 3)
	task.Formatter = compact()

	var reports []float64
	result, err := Run(context.Background(), task, inputs(
		"a.json", `{"name":"a","tags":["x"]}`,
		"b.json", `{"tags":["y"],"count":1}`,
		"c.yaml", "count: 2\n",
	), func(p float64) { reports = append(reports, p) })
	require.NoError(t, err)

	assert.Equal(t, `{"name":"a","tags":["x","y"],"count":2}`, string(result.Text))
	assert.Equal(t, 3, result.Documents)
	assert.False(t, result.Mixed)

	require.Len(t, reports, 3)
	assert.InDelta(t, 33.3, reports[0], 0.1)
	assert.Equal(t, float64(100), reports[2])
}

func TestRun_MergeParseErrorNamesFileAndAborts(t *testing.T) {
	defer goleak.VerifyNone(t)

	result, err := Run(context.Background(), NewMergeTask(merge.DefaultOptions(), 3), inputs(
		"a.json", `{"a":1}`,
		"broken.json", `{"a":`,
		"c.json", `{"c":3}`,
	), nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))
	assert.Contains(t, err.Error(), "broken.json")
}

func TestRun_MergeRejectsMalformedSeparatorsAndNumbers(t *testing.T) {
	for name, doc := range map[string]string{
		"missing-comma.json": `{"a":[1 2]}`,
		"leading-zero.json":  `{"b":01}`,
	} {
		t.Run(name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			result, err := Run(context.Background(), NewMergeTask(merge.DefaultOptions(), 2), inputs(
				"ok.json", `{"c":3}`,
				name, doc,
			), nil)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestRun_MergeWithoutDocuments(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := Run(context.Background(), NewMergeTask(merge.DefaultOptions(), 0), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoInput)
}

func TestRun_MergeInvalidOptions(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := merge.DefaultOptions()
	opts.ArrayStrategy = merge.ArrayMergeByKey
	opts.MergeKey = ""

	_, err := Run(context.Background(), NewMergeTask(opts, 1), inputs("a.json", `[]`), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestWorker_MismatchIsTerminal(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := Start(context.Background(), NewMergeTask(merge.DefaultOptions(), 2))
	require.NoError(t, w.Process("a.json", []byte(`[1]`)))
	require.NoError(t, w.Process("b.json", []byte(`{"b":1}`)))

	ev := w.Wait(nil)
	assert.Equal(t, EventMismatch, ev.Type)
	assert.Contains(t, ev.Err.Error(), "'a.json' has an array root but 'b.json' has an object root")

	assert.ErrorIs(t, w.Process("c.json", []byte(`[]`)), errors.ErrWorkerTerminated)
	assert.ErrorIs(t, w.Finalize(), errors.ErrWorkerTerminated)
}

func TestWorker_MixedRootsAllowed(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := merge.DefaultOptions()
	opts.AllowMixedRoots = true
	task := NewMergeTask(opts, 2)
	task.Formatter = compact()

	result, err := Run(context.Background(), task, inputs("a.json", `[1,2]`, "b.json", `{"k":"v"}`), nil)
	require.NoError(t, err)
	assert.True(t, result.Mixed)
	assert.Equal(t, `{"file1":[1,2],"file2":{"k":"v"}}`, string(result.Text))
}

func TestWorker_ExactlyOneTerminalEvent(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := Start(context.Background(), NewMergeTask(merge.DefaultOptions(), 4))
	for _, body := range []string{`[1]`, `[2]`, `[3]`, `[4]`} {
		require.NoError(t, w.Process("doc.json", []byte(body)))
	}
	require.NoError(t, w.Finalize())

	var events []Event
	for ev := range w.Events() {
		events = append(events, ev)
	}

	terminals := 0
	for i, ev := range events {
		if ev.Terminal() {
			terminals++
			assert.Equal(t, len(events)-1, i, "terminal event must be last")
		}
	}
	assert.Equal(t, 1, terminals)
	assert.Equal(t, EventComplete, events[len(events)-1].Type)
	assert.Len(t, events, 5)

	result := events[len(events)-1].Result
	assert.True(t, models.Equal(models.JSONArray{
		models.NumberFromInt(1), models.NumberFromInt(2), models.NumberFromInt(3), models.NumberFromInt(4),
	}, result.Value))
}

func TestWorker_RejectsMessagesAfterFinalize(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := Start(context.Background(), NewMergeTask(merge.DefaultOptions(), 1))
	require.NoError(t, w.Process("a.json", []byte(`{}`)))
	require.NoError(t, w.Finalize())
	assert.ErrorIs(t, w.Process("b.json", []byte(`{}`)), errors.ErrWorkerTerminated)
	assert.ErrorIs(t, w.Finalize(), errors.ErrWorkerTerminated)

	assert.Equal(t, EventComplete, w.Wait(nil).Type)
}

func TestWorker_ContextCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := Start(ctx, NewMergeTask(merge.DefaultOptions(), 1))
	ev := w.Wait(nil)
	assert.Equal(t, EventError, ev.Type)
	assert.True(t, stderrors.Is(ev.Err, context.Canceled))
	assert.ErrorIs(t, w.Process("a.json", []byte(`{}`)), errors.ErrWorkerTerminated)
}

func TestWorker_TerminateWithoutReading(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := Start(context.Background(), NewMergeTask(merge.DefaultOptions(), 2))
	require.NoError(t, w.Process("a.json", []byte(`{"a":1}`)))
	require.NoError(t, w.Process("b.json", []byte(`{"b":2}`)))
	w.Terminate()
	w.Terminate()

	assert.ErrorIs(t, w.Finalize(), errors.ErrWorkerTerminated)
}

func TestRun_ManyDocuments(t *testing.T) {
	defer goleak.VerifyNone(t)

	var in []Input
	for i := 0; i < 500; i++ {
		in = append(in, Input{Name: "doc.json", Data: []byte(`[0]`)})
	}
	result, err := Run(context.Background(), NewMergeTask(merge.DefaultOptions(), len(in)), in, nil)
	require.NoError(t, err)
	assert.Len(t, result.Value, 500)
}

func TestRun_Split(t *testing.T) {
	defer goleak.VerifyNone(t)

	task := &SplitTask{Path: "data.items", Method: split.Items(2), Formatter: compact()}
	var last float64
	result, err := Run(context.Background(), task,
		inputs("in.json", `{"data":{"items":[1,2,3,4,5]}}`),
		func(p float64) { last = p })
	require.NoError(t, err)

	require.Len(t, result.ChunkTexts, 3)
	assert.Equal(t, "[1,2]", string(result.ChunkTexts[0]))
	assert.Equal(t, "[5]", string(result.ChunkTexts[2]))
	assert.Len(t, result.Chunks, 3)
	assert.Equal(t, float64(100), last)
}

func TestRun_SplitErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := Run(context.Background(), &SplitTask{Method: split.Items(1)}, inputs("in.json", `{"a":[1]}`), nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRootNotArray))

	_, err = Run(context.Background(), &SplitTask{Path: "a.b", Method: split.Items(1)}, inputs("in.json", `{"a":[1]}`), nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypePath))

	_, err = Run(context.Background(), &SplitTask{Method: split.Items(0)}, inputs("in.json", `[1]`), nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = Run(context.Background(), &SplitTask{Method: split.Items(1)}, inputs("a.json", `[1]`, "b.json", `[2]`), nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "b.json")
}

func TestRun_Flatten(t *testing.T) {
	defer goleak.VerifyNone(t)

	task := &FlattenTask{Options: flatten.DefaultOptions(), Formatter: compact()}
	result, err := Run(context.Background(), task,
		inputs("in.json", `{"user":{"name":"Alice","tags":["a","b"]}}`), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"user.name":"Alice","user.tags[0]":"a","user.tags[1]":"b"}`, string(result.Text))

	reverse := &FlattenTask{Options: flatten.DefaultOptions(), Reverse: true, Formatter: compact()}
	result, err = Run(context.Background(), reverse, inputs("flat.json", string(result.Text)), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"user":{"name":"Alice","tags":["a","b"]}}`, string(result.Text))

	_, err = Run(context.Background(), &FlattenTask{Options: flatten.DefaultOptions(), Reverse: true},
		inputs("flat.json", `[1]`), nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
