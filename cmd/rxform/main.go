// Command rxform fills a form declared in a definition document from the
// terminal and prints the accepted values as JSON.
//
//	rxform -form signup.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/rxform"
)

func main() {
	path := flag.String("form", "form.yaml", "definition document (YAML or JSON)")
	attempts := flag.Int("attempts", 3, "submissions allowed before giving up")
	sanitize := flag.Bool("sanitize", false, "strip markup from text answers")
	verbose := flag.Bool("v", false, "log form signals to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *verbose {
		logSignals()
	}
	defer capitan.Shutdown()

	reg := rxform.NewRegistry(rxform.NewFileWatcher(*path))
	if err := reg.Start(ctx); err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	doc, _ := reg.Current()
	opts := []rxform.Option{rxform.WithSyncMode()}
	if *sanitize {
		opts = append(opts, rxform.WithSanitize())
	}
	dec, err := reg.Decorator(nil, opts...)
	if err != nil {
		log.Fatalf("Failed to build form: %v", err)
	}

	if err := fill(ctx, doc, dec, newSurveyDriver(os.Stderr), os.Stdout, *attempts); err != nil {
		if errors.Is(err, ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("Failed to fill form: %v", err)
	}
}

func logSignals() {
	logger := log.New(os.Stderr, "rxform: ", log.LstdFlags)
	for _, sig := range []capitan.Signal{
		rxform.FormMounted,
		rxform.FormFieldUpdated,
		rxform.FormEventRejected,
		rxform.FormSubmitFailed,
		rxform.FormSubmitSucceeded,
		rxform.FormUnmounted,
		rxform.RegistryStateChanged,
	} {
		capitan.Hook(sig, func(_ context.Context, e *capitan.Event) {
			field, _ := rxform.KeyField.From(e)
			msg, _ := rxform.KeyError.From(e)
			logger.Printf("%s field=%q error=%q", sig.Name(), field, msg)
		})
	}
}
