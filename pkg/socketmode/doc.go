/*
Package socketmode implements the Socket Mode connection manager: it
acquires single-use connection endpoints from the platform's REST API,
maintains a long-lived WebSocket connection, and keeps it healthy without
operator intervention.

# Components

  - Resolver: exchanges the app-level token for a one-shot connection URL.
  - Session: wraps one physical WebSocket connection and its read loop.
  - Supervisor: drives the connect/retry/reconnect lifecycle and detects
    zombie connections (transport reports open, but no traffic arrives).
  - Processor: classifies inbound frames, answers pings, acknowledges
    event envelopes, and fans them out to registered consumers.

# Failure Handling

The supervisor treats any inbound frame, including transport-level pings,
as evidence of liveness. When a connection reports open but stays silent
past the stale threshold (45s by default), it is force-closed and
re-established through a fresh endpoint. Connect attempts are retried a
bounded number of times with a fixed delay; exhausting the retries stops
the supervisor and is reported through logging only.

Event envelopes carrying an envelope_id are acknowledged before consumer
dispatch, so slow consumers never delay the platform's redelivery timers.
A panicking consumer is logged and isolated; remaining consumers still run.

# Shutdown

Stop closes the current session synchronously. RequestStop only flips the
running flag, making it safe to call from a signal handler; the run loop
performs the actual close on its own goroutine.

# Basic Usage

	log := logger.Default()
	config := socketmode.DefaultConfig()

	resolver, err := socketmode.NewResolver(appToken, config, log)
	if err != nil {
	    // ...
	}

	processor := socketmode.NewProcessor(log, nil)
	processor.OnEvent(func(envelope socketmode.Envelope) {
	    // handle decoded envelope
	})

	supervisor, err := socketmode.NewSupervisor(resolver, processor, config, log)
	if err != nil {
	    // ...
	}

	// Blocks until Stop/RequestStop or retry exhaustion.
	supervisor.Start()
*/
package socketmode
