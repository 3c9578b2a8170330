// Package handlers holds the stock handlers the charmhook command installs.
package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/randalmurphal/charmhook/pkg/charmhook/config"
	"github.com/randalmurphal/charmhook/pkg/charmhook/dispatch"
	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
)

// Register installs the stock handlers on d. Output goes to w.
//
// Relation handlers only fire for s.WatchRelation and workload handlers
// only for the names in s.Workloads; everything else is ignored.
func Register(d *dispatch.Dispatcher, w io.Writer, s config.Settings) {
	d.Register(hook.KindInstall, "on_install", Install(w))

	if s.WatchRelation != "" {
		d.Register(hook.KindRelationCreated, "on_"+s.WatchRelation+"_created",
			RelationCreated(w), dispatch.WithRelation(s.WatchRelation))
		d.Register(hook.KindRelationDeparted, "on_"+s.WatchRelation+"_departed",
			RelationDeparted(w), dispatch.WithRelation(s.WatchRelation))
	}

	for _, name := range s.Workloads {
		if name == "" {
			continue
		}
		d.Register(hook.KindWorkloadReady, "on_"+name+"_ready",
			WorkloadReady(w), dispatch.WithWorkload(name))
	}

	d.Register(hook.KindActionInvoked, "on_action", Action(w))
}

// Install prints a fixed line on install.
func Install(w io.Writer) dispatch.HandlerFunc {
	return func(context.Context, hook.Event) error {
		_, err := fmt.Fprintln(w, "Custom on_install hook")
		return err
	}
}

// RelationCreated prints the relation and its remote application.
func RelationCreated(w io.Writer) dispatch.HandlerFunc {
	return func(_ context.Context, evt hook.Event) error {
		e, ok := evt.(hook.RelationCreated)
		if !ok {
			return unexpected(evt)
		}
		_, err := fmt.Fprintf(w, "relation %s:%d created with %s\n",
			e.Relation.Name, e.Relation.ID, e.Relation.RemoteApp)
		return err
	}
}

// RelationDeparted prints the unit leaving the relation.
func RelationDeparted(w io.Writer) dispatch.HandlerFunc {
	return func(_ context.Context, evt hook.Event) error {
		e, ok := evt.(hook.RelationDeparted)
		if !ok {
			return unexpected(evt)
		}
		_, err := fmt.Fprintf(w, "relation %s:%d departed by %s\n",
			e.Relation.Name, e.Relation.ID, e.DepartingUnit)
		return err
	}
}

// WorkloadReady prints the workload that became ready.
func WorkloadReady(w io.Writer) dispatch.HandlerFunc {
	return func(_ context.Context, evt hook.Event) error {
		e, ok := evt.(hook.WorkloadReady)
		if !ok {
			return unexpected(evt)
		}
		_, err := fmt.Fprintf(w, "workload %s ready\n", e.Workload)
		return err
	}
}

// Action prints the invoked action's name.
func Action(w io.Writer) dispatch.HandlerFunc {
	return func(_ context.Context, evt hook.Event) error {
		e, ok := evt.(hook.ActionInvoked)
		if !ok {
			return unexpected(evt)
		}
		_, err := fmt.Fprintf(w, "Action: %s\n", e.Action)
		return err
	}
}

func unexpected(evt hook.Event) error {
	return fmt.Errorf("unexpected event %s", hook.Name(evt))
}
