package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestParsePackageManagerField(t *testing.T) {
	tests := []struct {
		field   string
		want    domain.PackageManager
		wantErr bool
	}{
		{field: "pnpm@9.12.0", want: domain.PackageManager{Name: domain.ManagerPnpm, Version: "9.12.0"}},
		{field: "yarn@4.1.0+sha224.953c8233", want: domain.PackageManager{Name: domain.ManagerYarn, Version: "4.1.0"}},
		{field: "bun@1.2.3", want: domain.PackageManager{Name: domain.ManagerBun, Version: "1.2.3"}},
		{field: "pnpm", wantErr: true},
		{field: "deno@2.0.0", wantErr: true},
		{field: "npm@latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, err := domain.ParsePackageManagerField(tt.field)
			if tt.wantErr {
				require.Error(t, err)
				var zErr *zerr.Error
				require.ErrorAs(t, err, &zErr)
				assert.Equal(t, tt.field, zErr.Metadata()["packageManager"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackageManager_MajorVersion(t *testing.T) {
	assert.Equal(t, 1, domain.PackageManager{Name: domain.ManagerYarn, Version: "1.22.19"}.MajorVersion())
	assert.Equal(t, 4, domain.PackageManager{Name: domain.ManagerYarn, Version: "4.0.2"}.MajorVersion())
	assert.Equal(t, 0, domain.PackageManager{Name: domain.ManagerYarn, Version: "unknown"}.MajorVersion())
}

func TestPackageManager_Family(t *testing.T) {
	assert.True(t, domain.PackageManager{Name: domain.ManagerPnpm}.IsPnpmFamily())
	assert.True(t, domain.PackageManager{Name: domain.ManagerBun}.IsPnpmFamily())
	assert.False(t, domain.PackageManager{Name: domain.ManagerNpm}.IsPnpmFamily())
	assert.False(t, domain.PackageManager{Name: domain.ManagerYarn}.IsPnpmFamily())
}

func TestPackageManager_LockfileName(t *testing.T) {
	assert.Equal(t, "pnpm-lock.yaml", domain.PackageManager{Name: domain.ManagerPnpm}.LockfileName())
	assert.Equal(t, "bun.lock", domain.PackageManager{Name: domain.ManagerBun}.LockfileName())
	assert.Equal(t, "yarn.lock", domain.PackageManager{Name: domain.ManagerYarn}.LockfileName())
	assert.Equal(t, "package-lock.json", domain.PackageManager{Name: domain.ManagerNpm}.LockfileName())
}

func TestPackageManager_String(t *testing.T) {
	assert.Equal(t, "npm@10.8.2", domain.PackageManager{Name: domain.ManagerNpm, Version: "10.8.2"}.String())
	assert.Equal(t, "npm", domain.PackageManager{Name: domain.ManagerNpm}.String())
}
