package detector_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/adapters/detector"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newDetector(t *testing.T) (*detector.Detector, *mocks.MockCommandRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return detector.New(runner, log), runner
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestDetect_PackageManagerField(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name":"root","packageManager":"pnpm@9.12.0+sha512.abc"}`)
	writeFile(t, root, "yarn.lock", "")

	d, _ := newDetector(t)
	pm, err := d.Detect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, domain.PackageManager{Name: domain.ManagerPnpm, Version: "9.12.0"}, pm)
}

func TestDetect_InvalidPackageManagerField(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name":"root","packageManager":"deno@2"}`)

	d, _ := newDetector(t)
	_, err := d.Detect(context.Background(), root)
	require.ErrorIs(t, err, domain.ErrInvalidPackageManager)
}

func TestDetect_LockfileOrder(t *testing.T) {
	tests := []struct {
		name      string
		lockfiles []string
		manager   domain.ManagerName
	}{
		{name: "pnpm wins", lockfiles: []string{"pnpm-lock.yaml", "package-lock.json"}, manager: domain.ManagerPnpm},
		{name: "bun before yarn", lockfiles: []string{"bun.lock", "yarn.lock"}, manager: domain.ManagerBun},
		{name: "yarn before npm", lockfiles: []string{"yarn.lock", "package-lock.json"}, manager: domain.ManagerYarn},
		{name: "npm", lockfiles: []string{"package-lock.json"}, manager: domain.ManagerNpm},
		{name: "shrinkwrap", lockfiles: []string{"npm-shrinkwrap.json"}, manager: domain.ManagerNpm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, "package.json", `{"name":"root"}`)
			for _, f := range tt.lockfiles {
				writeFile(t, root, f, "")
			}

			d, runner := newDetector(t)
			runner.EXPECT().
				Output(gomock.Any(), domain.Command{Name: string(tt.manager), Args: []string{"--version"}, Dir: root}).
				Return([]byte("v1.2.3\n"), nil)

			pm, err := d.Detect(context.Background(), root)
			require.NoError(t, err)
			assert.Equal(t, domain.PackageManager{Name: tt.manager, Version: "1.2.3"}, pm)
		})
	}
}

func TestDetect_NothingFound(t *testing.T) {
	d, _ := newDetector(t)
	_, err := d.Detect(context.Background(), t.TempDir())
	require.ErrorIs(t, err, domain.ErrPackageManagerNotDetected)
}

func TestVersion_RunnerFailure(t *testing.T) {
	d, runner := newDetector(t)
	runner.EXPECT().Output(gomock.Any(), gomock.Any()).Return(nil, errors.New("executable file not found"))

	_, err := d.Version(context.Background(), domain.ManagerBun, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrPackageManagerNotDetected.Error())
}
