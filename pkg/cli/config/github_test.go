package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/relsum/pkg/cli/config"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

func TestGitHub_NewGateway(t *testing.T) {
	t.Run("token required without dry run", func(t *testing.T) {
		_, err := (&config.GitHub{}).NewGateway(false)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidConfig))
	})

	t.Run("authenticated gateway", func(t *testing.T) {
		gw, err := (&config.GitHub{Token: "token"}).NewGateway(false)
		gt.NoError(t, err)
		gt.NotNil(t, gw)
	})

	t.Run("dry run gateway refuses uploads", func(t *testing.T) {
		gw, err := (&config.GitHub{}).NewGateway(true)
		gt.NoError(t, err)

		err = gw.UploadAsset(context.Background(), model.Repository{Owner: "octo", Name: "hello"}, "v1.0.0", "checksum.txt")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrReadOnlyGateway))
	})

	t.Run("enterprise API URL", func(t *testing.T) {
		gw, err := (&config.GitHub{Token: "token", APIURL: "https://ghes.example.com/api/v3"}).NewGateway(false)
		gt.NoError(t, err)
		gt.NotNil(t, gw)
	})

	t.Run("invalid API URL", func(t *testing.T) {
		_, err := (&config.GitHub{Token: "token", APIURL: "not a url"}).NewGateway(false)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidConfig))
	})
}
