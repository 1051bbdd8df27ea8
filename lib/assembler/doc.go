// Package assembler drives the two phases of distributed contig assembly.
//
// In the insertion phase every process routes its stripe of k-mers into the
// distributed table: keys owned locally go straight into the shard, remote
// keys are posted to their owner, and incoming inserts are drained between
// consecutive k-mers so computation overlaps communication. The phase ends
// with a quiescence loop: an all-reduce over the applied counters repeated
// until the global sum reaches the input line count.
//
// In the walk phase one cursor per locally owned start node chains k-mers via
// their successor keys. Local successors resolve synchronously; remote ones
// park the cursor until the owner's reply arrives. A process that finishes
// all of its cursors broadcasts a done token to every rank including itself
// and keeps answering lookup requests until it has seen N tokens, which is
// the distributed termination condition.
//
// Both phases run single-threaded and cooperatively: the poll loop of the
// mesh transport interleaves with the work, no call blocks on a single peer.
package assembler
