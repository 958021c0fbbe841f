// Package audioio is a cross-platform audio I/O abstraction. It presents a
// uniform device enumeration, stream configuration negotiation, and sample
// streaming API on top of the platform's native audio layer.
//
// # Architecture overview
//
//	Host -> Device -> Stream
//	Negotiation: SupportedStreamConfigRange -> SupportedStreamConfig -> StreamConfig
//	Delivery: native buffer-ready callback -> Buffer + OutputCallbackInfo -> DataCallback
//
// A Host is an explicit value owning the connection to the native audio
// layer; there is no process-wide registry. Devices enumerated from a Host
// report the configuration ranges they support and build Streams. An open
// Stream invokes the user's DataCallback once per buffer period on the
// native real-time thread, handing it a borrowed sample buffer and
// timestamps for the callback and the predicted playback instant.
//
// # Real-time constraints
//
// The DataCallback runs on the native audio thread. It must not block,
// allocate, or perform I/O, and must return within one buffer period;
// violating this risks audible glitches or a watchdog abort by the native
// layer. The Buffer passed to the callback is only valid until the callback
// returns. Delivery stops only through Stream.Pause or Stream.Close; an
// invocation already in progress always runs to completion.
package audioio
