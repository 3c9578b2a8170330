/*
Package charmhook classifies a Juju hook invocation from its environment
and dispatches it to registered handlers.

# Overview

The Juju agent runs a charm once per hook, passing everything it knows
about the invocation through environment variables. charmhook reads those
variables once, turns them into exactly one hook.Event, and hands that
event to a dispatch.Dispatcher which runs at most one handler.

	src := env.OS{}
	d := dispatch.New(dispatch.Config{Logger: logger})
	d.Register(hook.KindInstall, "on_install", dispatch.HandlerFunc(
	    func(ctx context.Context, evt hook.Event) error {
	        fmt.Println("installing", evt.Metadata().UnitName())
	        return nil
	    }))

	out := charmhook.Run(ctx, src, d, charmhook.WithLogger(logger))
	fmt.Println(hook.Render(out.Event))

# Packages

  - env: the variable names and the Source abstraction over them
  - hook: the Event variants, the Classifier and rendering
  - dispatch: handler registration, routing and middleware
  - journal: optional record of every classified invocation
  - config: settings file loading
  - observability: logging, metrics and tracing helpers
  - handlers: the stock handlers used by the charmhook command

# Failure model

Classification never fails. A malformed or partial environment becomes
hook.Unrecognized with a reason and a copy of the environment. Handler
errors and panics are reported in the dispatch result and logged; they
never stop the process.
*/
package charmhook
