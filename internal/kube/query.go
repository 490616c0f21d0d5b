package kube

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// QueryTarget holds the PostgreSQL connection settings for one pod,
// discovered from its container environment.
type QueryTarget struct {
	Namespace string
	Pod       string
	Container string
	Database  string
	User      string
	Password  string
	Port      string
}

// DetectPostgres inspects the pod's first container env for the standard
// POSTGRES_* variables. Missing values fall back to the postgres image
// defaults; the target is usable even when nothing was found.
func (c *Client) DetectPostgres(ctx context.Context, namespace, pod string) (QueryTarget, error) {
	t := QueryTarget{
		Namespace: namespace,
		Pod:       pod,
		Database:  "postgres",
		User:      "postgres",
		Port:      "5432",
	}
	p, err := c.Clientset.CoreV1().Pods(namespace).Get(ctx, pod, metav1.GetOptions{})
	if err != nil {
		return t, fmt.Errorf("getting pod %s/%s: %w", namespace, pod, err)
	}
	if len(p.Spec.Containers) == 0 {
		return t, nil
	}
	container := p.Spec.Containers[0]
	t.Container = container.Name
	for _, env := range container.Env {
		if env.Value == "" {
			continue
		}
		switch env.Name {
		case "POSTGRES_DB":
			t.Database = env.Value
		case "POSTGRES_USER":
			t.User = env.Value
		case "POSTGRES_PASSWORD":
			t.Password = env.Value
		case "PGPORT":
			t.Port = env.Value
		}
	}
	return t, nil
}

// QueryResult is one executed statement's table.
type QueryResult struct {
	Columns []string
	Rows    [][]string
}

// RunQuery executes one SQL statement with psql inside the target pod and
// parses its CSV output. Statement errors come back as errors carrying
// psql's stderr.
func (c *Client) RunQuery(ctx context.Context, t QueryTarget, sql string) (QueryResult, error) {
	command := []string{
		"env", "PGPASSWORD=" + t.Password,
		"psql", "--csv",
		"-h", "127.0.0.1",
		"-p", t.Port,
		"-U", t.User,
		"-d", t.Database,
		"-c", sql,
	}
	stdout, stderr, err := c.ExecCapture(ctx, t.Namespace, t.Pod, t.Container, command)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			return QueryResult{}, err
		}
		return QueryResult{}, fmt.Errorf("query failed: %s", detail)
	}
	return parseCSVResult(stdout)
}

func parseCSVResult(out string) (QueryResult, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return QueryResult{}, nil
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		return QueryResult{}, fmt.Errorf("parsing query output: %w", err)
	}
	if len(records) == 0 {
		return QueryResult{}, nil
	}
	return QueryResult{Columns: records[0], Rows: records[1:]}, nil
}
