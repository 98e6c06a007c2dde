package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/recode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	results := []domain.JobResult{
		{Success: true, SourcePath: "/lib/a.mkv", DestPath: "/out/a.mkv", OriginalBytes: 3000, NewBytes: 900, Elapsed: time.Minute},
		{Success: false, SourcePath: "/lib/b.mkv", ErrorMessage: "boom"},
	}
	sum := domain.Summarize("run-7", "/lib", domain.TargetAV1, time.Now(), time.Now(), results)

	require.NoError(t, Write(path, sum, results))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "run-7", got.Run.ID)
	assert.Equal(t, domain.TargetAV1, got.Run.Target)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "/out/a.mkv", got.Results[0].DestPath)
	assert.Equal(t, "boom", got.Results[1].ErrorMessage)

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
