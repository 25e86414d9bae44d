package nats

import (
	"context"
	"testing"
	"time"

	natssrv "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/zoobzio/rxform"
)

func setupKV(t *testing.T) jetstream.KeyValue {
	t.Helper()

	s, err := natssrv.NewServer(&natssrv.Options{
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go s.Start()
	if !s.ReadyForConnections(5 * time.Second) {
		s.Shutdown()
		t.Fatal("nats server not ready")
	}
	t.Cleanup(s.Shutdown)

	nc, err := nats.Connect(s.ClientURL())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("failed to create jetstream: %v", err)
	}
	kv, err := js.CreateKeyValue(context.Background(), jetstream.KeyValueConfig{Bucket: "forms"})
	if err != nil {
		t.Fatalf("failed to create kv bucket: %v", err)
	}
	return kv
}

func receive(t *testing.T, ch <-chan []byte) string {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(v)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for document")
	}
	return ""
}

func TestSource_EmitsStoredDocument(t *testing.T) {
	kv := setupKV(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := kv.Put(ctx, "signup", []byte("fields: [{name: email}]")); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	ch, err := New(kv, "signup").Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if got := receive(t, ch); got != "fields: [{name: email}]" {
		t.Errorf("unexpected document %q", got)
	}
}

func TestSource_EmitsRevisionsAndSkipsDeletes(t *testing.T) {
	kv := setupKV(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := New(kv, "signup").Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if _, err := kv.Put(ctx, "signup", []byte("v1")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if got := receive(t, ch); got != "v1" {
		t.Errorf("expected v1, got %q", got)
	}

	if err := kv.Delete(ctx, "signup"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := kv.Put(ctx, "signup", []byte("v2")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if got := receive(t, ch); got != "v2" {
		t.Errorf("expected v2 after delete, got %q", got)
	}
}

func TestSource_FeedsRegistry(t *testing.T) {
	kv := setupKV(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := kv.Put(ctx, "signup", []byte("fields:\n  - name: email\n    rules: required,email\n")); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	reg := rxform.NewRegistry(New(kv, "signup")).Debounce(10 * time.Millisecond)
	if err := reg.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := kv.Put(ctx, "signup", []byte("fields:\n  - name: phone\n")); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if doc, ok := reg.Current(); ok && doc.Fields[0].Name == "phone" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("registry did not pick up the new revision")
}
