package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestExec(t *testing.T) {
	out := &bytes.Buffer{}
	err := run([]string{
		"--log-level", "error",
		"exec",
		"CREATE TABLE Items (sku, qty)",
		"INSERT INTO Items (sku, qty) VALUES (ABC1, 5)",
		"SELECT * FROM items",
	}, out)
	if err != nil {
		t.Fatal(err)
	}
	e := "" +
		"Created items\n" +
		`items {"id":1,"fields":{"qty":5,"sku":"abc1"}}` + "\n" +
		"Statement ignored\n"
	if out.String() != e {
		t.Fatalf("\nwant\n%s\ngot\n%s\n", e, out.String())
	}
}

func TestExecFailure(t *testing.T) {
	out := &bytes.Buffer{}
	err := run([]string{
		"--log-level", "error",
		"exec",
		"INSERT INTO nope (a) VALUES (1)",
		"CREATE TABLE t (a)",
	}, out)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "1 of 2 statements failed") {
		t.Fatalf("expected failure count got %s", err)
	}
	if !strings.Contains(out.String(), "schema not found") || !strings.Contains(out.String(), "Created t") {
		t.Fatalf("expected every statement to run got %s", out.String())
	}
}

func TestExecPrint(t *testing.T) {
	out := &bytes.Buffer{}
	err := run([]string{
		"--log-level", "error",
		"--cache-size", "0",
		"exec", "--print",
		"CREATE TABLE t (a)",
	}, out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Digest: ") {
		t.Fatalf("expected digest in %s", out.String())
	}
}

func TestVersion(t *testing.T) {
	out := &bytes.Buffer{}
	if err := run([]string{"version"}, out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "memdb version "+version+"\n" {
		t.Fatalf("expected version got %s", out.String())
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if err := run([]string{"--log-level", "loud", "version"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
}
