package artifactstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey("/A_lua_20261017_101500_ab12cd34/", "relatorio_20261017_101500.pdf")
	require.NoError(t, err)
	require.Equal(t, "A_lua_20261017_101500_ab12cd34/relatorio_20261017_101500.pdf", key)

	_, err = ObjectKey("", "x.pdf")
	require.Error(t, err)
	_, err = ObjectKey("case", "../x.pdf")
	require.Error(t, err)
}

func TestNewS3StoreValidatesConfig(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	require.Error(t, err)
	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a"})
	require.Error(t, err)
	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"})
	require.Error(t, err)

	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "factflow"})
	require.NoError(t, err)
	require.Equal(t, "us-east-1", s.region)
}
