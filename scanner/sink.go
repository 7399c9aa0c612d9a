package scanner

// Update is the one-way handoff unit between the scan loop and a
// presentation sink: either a status line or a full snapshot.
type Update struct {
  Status string
  Snapshot Snapshot
  HasSnapshot bool
}

// Sink consumes what the scan loop produces. Implementations must not call
// back into the loop; within a cycle the loop always delivers a status,
// then the snapshot, then a final status.
type Sink interface {
  Status(s string)
  Publish(snap Snapshot)
}

// ChannelSink forwards updates into a channel, decoupling a renderer
// running on another goroutine from the scan loop.
type ChannelSink chan Update

func (c ChannelSink) Status(s string) {
  c <- Update{Status: s}
}

func (c ChannelSink) Publish(snap Snapshot) {
  c <- Update{Snapshot: snap, HasSnapshot: true}
}
