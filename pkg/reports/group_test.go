package reports

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deliveryReport = `# time created delivered delivered/created
0.0 0 0 0.0
3600.0 10 4 0.4
7200.0 20 15 0.75
`

func TestNewStatsGroup(t *testing.T) {
	resolver := NewResolver(newFs(t, statsFiles()))

	g, err := NewStatsGroup(context.Background(), Spec{Pattern: "msg_stats_report_*", Name: "G1", BaseDir: reportsDir}, resolver)

	require.NoError(t, err)
	assert.False(t, g.IsEmpty())
	assert.Equal(t, "G1", g.Name())
	assert.Equal(t, KindStats, g.Kind())
	assert.Equal(t, []string{"test_scenario1", "test_scenario2", "test_scenario3"}, g.Table().Index())
	assert.False(t, g.Table().HasColumn(ColumnHours))
	assert.Equal(t, "msg_stats_report_*", g.Pattern())
	assert.Equal(t, reportsDir, g.BaseDir())
	assert.Equal(t, "ReportGroup(stats, msg_stats_report_*, G1, /reports)", g.String())
}

func TestNewDelayGroup_DerivesHours(t *testing.T) {
	resolver := NewResolver(newFs(t, map[string]string{"run_MessageDelayReport.txt": delayReport1}))

	g, err := NewDelayGroup(context.Background(), Spec{Pattern: "*Delay*", Name: "G1", BaseDir: reportsDir}, resolver)

	require.NoError(t, err)
	assert.Equal(t, []string{ColumnMessageDelay, ColumnCumulativeProbability, ColumnScenario, ColumnGroup, ColumnHours},
		g.Table().Columns())
	hours := g.Table().Floats(ColumnHours)
	assert.InDelta(t, 60.0/3600, hours[0], 1e-12)
	assert.InDelta(t, 1.0, hours[2], 1e-12)
}

func TestNewDeliveryGroup(t *testing.T) {
	resolver := NewResolver(newFs(t, map[string]string{"s1_MessageDeliveryReport.txt": deliveryReport}))

	g, err := NewDeliveryGroup(context.Background(), Spec{Pattern: "*Delivery*", Name: "G2", BaseDir: reportsDir}, resolver)

	require.NoError(t, err)
	assert.Equal(t, 3, g.Table().Len())
	assert.Equal(t, []float64{0, 1, 2}, g.Table().Floats(ColumnHours))
	assert.Equal(t, []float64{0, 0.4, 0.75}, g.Table().Floats(ColumnDeliveredCreated))
}

func TestNewGroup_EmptyGlobIsNotFatal(t *testing.T) {
	loaders := []Loader{DelayLoader(), DeliveryLoader(), StatsLoader()}
	for _, loader := range loaders {
		t.Run(string(loader.Kind()), func(t *testing.T) {
			ctx, logs := logContext()
			resolver := NewResolver(newFs(t, nil))

			g, err := NewGroup(ctx, loader, Spec{Pattern: "*nothing*", Name: "G1", BaseDir: reportsDir}, resolver)

			require.NoError(t, err)
			assert.True(t, g.IsEmpty())
			assert.Contains(t, logs.String(), "G1 dataframe is empty. No report files match glob '*nothing*'")
		})
	}
}

func TestNewGroup_AllOpensFailed(t *testing.T) {
	base := newFs(t, map[string]string{"x_MessageDelayReport.txt": delayReport1})
	resolver := NewResolver(failingOpenFs{Fs: base, fail: map[string]bool{"/reports/x_MessageDelayReport.txt": true}})
	ctx, logs := logContext()

	g, err := NewDelayGroup(ctx, Spec{Pattern: "*", Name: "G1", BaseDir: reportsDir}, resolver)

	require.NoError(t, err)
	assert.True(t, g.IsEmpty())
	assert.Contains(t, logs.String(), "failed to open report file")
	assert.Contains(t, logs.String(), "dataframe is empty")
}

func TestNewGroup_HeaderOnlyReportsAreEmpty(t *testing.T) {
	// Given: delay reports of runs that delivered nothing
	resolver := NewResolver(newFs(t, map[string]string{
		"a_MessageDelayReport.txt": "# messageDelay cumProb\n",
		"b_MessageDelayReport.txt": "# messageDelay cumProb\n",
	}))
	ctx, logs := logContext()

	// When
	g, err := NewDelayGroup(ctx, Spec{Pattern: "*Delay*", Name: "G1", BaseDir: reportsDir}, resolver)

	// Then
	require.NoError(t, err)
	assert.True(t, g.IsEmpty())
	assert.Contains(t, logs.String(), "G1 dataframe is empty. Report files matching glob '*Delay*' hold no data rows")
	assert.NotContains(t, logs.String(), "No report files match")
}

func TestNewGroup_ShapeMismatchIsFatal(t *testing.T) {
	resolver := NewResolver(newFs(t, map[string]string{"bad_MessageDelayReport.txt": "# h\n1 2 3\n1 2\n"}))

	g, err := NewDelayGroup(context.Background(), Spec{Pattern: "*", Name: "G1", BaseDir: reportsDir}, resolver)

	assert.Nil(t, g)
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Contains(t, err.Error(), "bad_MessageDelayReport.txt")
	assert.Contains(t, err.Error(), "between 2 to 3 columns")
}

func TestNewGroup_ShapeMismatchClosesFiles(t *testing.T) {
	// Given: a well-formed report followed by a ragged one
	fs := newTrackingFs(newFs(t, map[string]string{
		"a_MessageDelayReport.txt": delayReport1,
		"b_MessageDelayReport.txt": "# h\n1 2 3\n1 2\n",
	}))

	// When
	_, err := NewDelayGroup(context.Background(), Spec{Pattern: "*Delay*", Name: "G1", BaseDir: reportsDir}, NewResolver(fs))

	// Then
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.True(t, fs.opened(filepath.Join(reportsDir, "a_MessageDelayReport.txt")))
	assert.True(t, fs.opened(filepath.Join(reportsDir, "b_MessageDelayReport.txt")))
	assert.Empty(t, fs.openFiles())
}

func TestNewDeliveryGroup_MissingTimeColumn(t *testing.T) {
	// Given: a file with the right field count whose first field is never numeric
	resolver := NewResolver(newFs(t, map[string]string{
		"wrong.txt": "# header\nt0 1 0 0.0\nt1 2 1 0.5\n",
	}))

	// When
	_, err := NewDeliveryGroup(context.Background(), Spec{Pattern: "wrong.txt", Name: "G1", BaseDir: reportsDir}, resolver)

	// Then
	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, ColumnTime, missing.Column)
	assert.Contains(t, err.Error(), `"time"`)
	assert.Contains(t, err.Error(), "glob patterns")
}

func TestReportGroup_SetTable(t *testing.T) {
	g, err := NewStatsGroup(context.Background(), Spec{Pattern: "*", Name: "G1", BaseDir: reportsDir}, NewResolver(newFs(t, nil)))
	require.NoError(t, err)
	require.True(t, g.IsEmpty())

	tbl := domain.NewIndexedTable(ColumnScenario)
	row := domain.Row{Key: "S1"}
	row.Set("delivered", domain.Number(100))
	row.Set("delivery_prob", domain.Number(0.25))
	tbl.AppendRow(row)

	g.SetTable(tbl)

	assert.False(t, g.IsEmpty())
	assert.Same(t, tbl, g.Table())
	assert.Equal(t, "G1", g.Name())
}

func TestRegistry(t *testing.T) {
	resolver := NewResolver(newFs(t, statsFiles()))
	r := NewDefaultRegistry(resolver)

	t.Run("kinds", func(t *testing.T) {
		assert.Equal(t, []Kind{KindDelay, KindDelivery, KindStats}, r.Kinds())
	})

	t.Run("create all keeps order", func(t *testing.T) {
		groups, err := r.CreateAll(context.Background(), KindStats, []Spec{
			{Pattern: "msg_stats_report_1.txt", Name: "B", BaseDir: reportsDir},
			{Pattern: "msg_stats_report_*", Name: "A", BaseDir: reportsDir},
		})
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "B", groups[0].Name())
		assert.Equal(t, 1, groups[0].Table().Len())
		assert.Equal(t, 3, groups[1].Table().Len())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := r.Create(context.Background(), Kind("movement"), Spec{})
		assert.ErrorContains(t, err, "not registered")
	})

	t.Run("register validation", func(t *testing.T) {
		assert.Error(t, r.Register("", func(context.Context, Spec) (Group, error) { return nil, nil }))
		assert.Error(t, r.Register("custom", nil))
		assert.Error(t, r.Register(KindStats, func(context.Context, Spec) (Group, error) { return nil, nil }))
		assert.NoError(t, r.Register("custom", func(context.Context, Spec) (Group, error) { return nil, nil }))
	})
}
