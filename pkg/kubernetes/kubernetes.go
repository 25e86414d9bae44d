// Package kubernetes serves rxform definition documents from a ConfigMap.
package kubernetes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
)

// DefaultKey is the ConfigMap data key read when none is given.
const DefaultKey = "form.yaml"

// DefaultRetry is the pause before a broken watch is reopened.
const DefaultRetry = time.Second

var errWatchClosed = errors.New("watch closed")

// Source emits the document held under one key of a ConfigMap. Updates that
// leave the key unchanged are skipped.
type Source struct {
	client    kubernetes.Interface
	namespace string
	name      string
	key       string
	retry     time.Duration
	clock     clockz.Clock
	onError   func(error)
}

// Option configures a Source.
type Option func(*Source)

// WithKey sets the data key holding the document.
func WithKey(key string) Option {
	return func(s *Source) {
		s.key = key
	}
}

// WithRetry sets the pause before a broken watch is reopened.
func WithRetry(d time.Duration) Option {
	return func(s *Source) {
		s.retry = d
	}
}

// WithClock sets the clock used for the retry pause.
func WithClock(clock clockz.Clock) Option {
	return func(s *Source) {
		s.clock = clock
	}
}

// WithOnError sets a callback for errors that break the watch.
func WithOnError(fn func(error)) Option {
	return func(s *Source) {
		s.onError = fn
	}
}

// New returns a Source for the ConfigMap namespace/name.
func New(client kubernetes.Interface, namespace, name string, opts ...Option) *Source {
	s := &Source{
		client:    client,
		namespace: namespace,
		name:      name,
		key:       DefaultKey,
		retry:     DefaultRetry,
		clock:     clockz.RealClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Watch implements rxform.Watcher. The current document is emitted first. A
// watch the API server closes is reopened after the retry pause.
func (s *Source) Watch(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte)
	go func() {
		defer close(out)
		var last []byte
		for {
			err := s.session(ctx, out, &last)
			if ctx.Err() != nil {
				return
			}
			if s.onError != nil {
				s.onError(err)
			}
			pause := s.clock.NewTimer(s.retry)
			select {
			case <-ctx.Done():
				pause.Stop()
				return
			case <-pause.C():
			}
		}
	}()
	return out, nil
}

// session reads the ConfigMap and follows it until the watch breaks.
func (s *Source) session(ctx context.Context, out chan<- []byte, last *[]byte) error {
	maps := s.client.CoreV1().ConfigMaps(s.namespace)

	cm, err := maps.Get(ctx, s.name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("get configmap %s/%s: %w", s.namespace, s.name, err)
	}
	if err := s.emit(ctx, out, last, cm); err != nil {
		return err
	}

	w, err := maps.Watch(ctx, metav1.ListOptions{
		FieldSelector:   fields.OneTermEqualSelector("metadata.name", s.name).String(),
		ResourceVersion: cm.ResourceVersion,
	})
	if err != nil {
		return fmt.Errorf("watch configmap %s/%s: %w", s.namespace, s.name, err)
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.ResultChan():
			if !ok {
				return errWatchClosed
			}
			switch ev.Type {
			case watch.Error:
				return fmt.Errorf("watch configmap %s/%s: %v", s.namespace, s.name, ev.Object)
			case watch.Added, watch.Modified:
				if cm, ok := ev.Object.(*corev1.ConfigMap); ok {
					if err := s.emit(ctx, out, last, cm); err != nil {
						return err
					}
				}
			}
		}
	}
}

// emit sends the document of cm unless it is missing or unchanged.
func (s *Source) emit(ctx context.Context, out chan<- []byte, last *[]byte, cm *corev1.ConfigMap) error {
	raw, ok := cm.Data[s.key]
	if !ok {
		return nil
	}
	doc := []byte(raw)
	if *last != nil && bytes.Equal(*last, doc) {
		return nil
	}
	select {
	case out <- doc:
		*last = doc
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
