package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

func TestParseCSVResult(t *testing.T) {
	t.Run("columns and rows", func(t *testing.T) {
		res, err := parseCSVResult("id,name\n1,alpha\n2,beta\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, res.Columns)
		assert.Equal(t, [][]string{{"1", "alpha"}, {"2", "beta"}}, res.Rows)
	})

	t.Run("quoted fields", func(t *testing.T) {
		res, err := parseCSVResult("id,note\n1,\"hello, world\"\n")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "hello, world"}}, res.Rows)
	})

	t.Run("header only", func(t *testing.T) {
		res, err := parseCSVResult("count\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"count"}, res.Columns)
		assert.Empty(t, res.Rows)
	})

	t.Run("empty output", func(t *testing.T) {
		res, err := parseCSVResult("")
		require.NoError(t, err)
		assert.Empty(t, res.Columns)
		assert.Empty(t, res.Rows)
	})

	t.Run("ragged rows rejected", func(t *testing.T) {
		_, err := parseCSVResult("a,b\n1\n")
		assert.Error(t, err)
	})
}

func postgresPod(env ...corev1.EnvVar) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "db-0", Namespace: "default"},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{
				{Name: "postgres", Env: env},
			},
		},
	}
}

func TestDetectPostgres(t *testing.T) {
	clientset := k8sfake.NewSimpleClientset(postgresPod(
		corev1.EnvVar{Name: "POSTGRES_DB", Value: "appdb"},
		corev1.EnvVar{Name: "POSTGRES_USER", Value: "admin"},
		corev1.EnvVar{Name: "POSTGRES_PASSWORD", Value: "secret"},
		corev1.EnvVar{Name: "PGPORT", Value: "5433"},
	))
	c := &Client{Clientset: clientset}

	target, err := c.DetectPostgres(context.Background(), "default", "db-0")
	require.NoError(t, err)
	assert.Equal(t, "appdb", target.Database)
	assert.Equal(t, "admin", target.User)
	assert.Equal(t, "secret", target.Password)
	assert.Equal(t, "5433", target.Port)
	assert.Equal(t, "postgres", target.Container)
}

func TestDetectPostgresDefaults(t *testing.T) {
	clientset := k8sfake.NewSimpleClientset(postgresPod())
	c := &Client{Clientset: clientset}

	target, err := c.DetectPostgres(context.Background(), "default", "db-0")
	require.NoError(t, err)
	assert.Equal(t, "postgres", target.Database)
	assert.Equal(t, "postgres", target.User)
	assert.Empty(t, target.Password)
	assert.Equal(t, "5432", target.Port)
}

func TestDetectPostgresMissingPod(t *testing.T) {
	c := &Client{Clientset: k8sfake.NewSimpleClientset()}

	target, err := c.DetectPostgres(context.Background(), "default", "gone")
	assert.Error(t, err)
	// Defaults still come back so the editor can open with something usable.
	assert.Equal(t, "postgres", target.User)
	assert.Equal(t, "5432", target.Port)
}
