// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

/*
Package websocket carries each proctoring session's control inputs and
alert stream over one gorilla/websocket connection.

The Hub maps session IDs to connected clients. Every client runs two
goroutines:

  - readPump decodes inbound envelopes and hands them to a Handler
    (the detection engine). When it exits the session is closed.
  - writePump serializes queued messages and keeps the connection alive
    with pings.

Inbound envelope types:

	frame_signals    data is a perception signal bundle
	frame_error      the client could not capture or encode a frame
	manual_request   {"type": "request_360_scan"}
	client_response  acknowledgement, logged only
	client_alert     relayed back to the session unchanged
	ping             answered with pong

Outbound messages use the same {type, data} envelope. Alerts are sent as
"proctoring_alert"; malformed envelopes are answered with "error".

SendToSession never blocks. A client whose buffer is full loses the
message and the send is reported as an error to the caller.
*/
package websocket
