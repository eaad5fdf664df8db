package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/adapters/shell"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestRunner_Run_MultiLineOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockLogger.EXPECT().Debug("running sh -c echo line1; echo line2")
	mockLogger.EXPECT().Debug("line1")
	mockLogger.EXPECT().Debug("line2")

	runner := shell.NewRunner(mockLogger)
	err := runner.Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo line1; echo line2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
}

func TestRunner_Run_FragmentedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockLogger.EXPECT().Debug(gomock.Any()).Times(1)
	mockLogger.EXPECT().Debug("part1part2")

	runner := shell.NewRunner(mockLogger)
	err := runner.Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "printf part1; sleep 0.1; echo part2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
}

func TestRunner_Run_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	runner := shell.NewRunner(mockLogger)
	err := runner.Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo boom >&2; exit 3"},
		Dir:  t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCommandFailed.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, 3, meta["exit_code"])
	assert.Equal(t, "boom", meta["stderr"])
}

func TestRunner_Output(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	runner := shell.NewRunner(mockLogger)
	out, err := runner.Output(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo \"$ISOLATE_TEST_VALUE\""},
		Dir:  t.TempDir(),
		Env:  []string{"ISOLATE_TEST_VALUE=10.8.2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "10.8.2", string(out))
}

func TestResolveEnvironment(t *testing.T) {
	env := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/root", "BROKEN"},
		[]string{"HOME=/tmp/home", "CI=true"},
	)
	assert.Equal(t, []string{"CI=true", "HOME=/tmp/home", "PATH=/usr/bin"}, env)
}
