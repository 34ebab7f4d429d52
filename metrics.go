// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional prometheus collector bundle wired in via
// WithMetrics. A nil *Metrics is always safe to use -- every call site in
// this package nil-checks before touching it, so metrics are strictly
// opt-in overhead.
type Metrics struct {
	nodesLen       prometheus.Gauge
	entriesLen     prometheus.Gauge
	childrenLen    prometheus.Gauge
	collisionNodes prometheus.Counter
	checkpoints    prometheus.Counter
	rollbacks      prometheus.Counter
}

// NewMetrics registers a Metrics bundle under namespace on reg and returns
// it. Passing the same (reg, namespace) twice will panic on duplicate
// registration, per prometheus/client_golang's own contract.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		nodesLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "champ", Name: "nodes_arena_len",
			Help: "Current length of the nodes arena.",
		}),
		entriesLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "champ", Name: "entries_arena_len",
			Help: "Current length of the entries arena.",
		}),
		childrenLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "champ", Name: "children_arena_len",
			Help: "Current length of the child-index arena.",
		}),
		collisionNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "champ", Name: "collision_nodes_total",
			Help: "Collision nodes synthesized by Insert.",
		}),
		checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "champ", Name: "checkpoints_total",
			Help: "Checkpoint calls observed.",
		}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "champ", Name: "rollbacks_total",
			Help: "Rollback calls observed.",
		}),
	}
	reg.MustRegister(m.nodesLen, m.entriesLen, m.childrenLen, m.collisionNodes, m.checkpoints, m.rollbacks)
	return m
}

func (m *Metrics) observeArena(nodes, entries, children int) {
	if m == nil {
		return
	}
	m.nodesLen.Set(float64(nodes))
	m.entriesLen.Set(float64(entries))
	m.childrenLen.Set(float64(children))
}

func (m *Metrics) incCollisionNode() {
	if m == nil {
		return
	}
	m.collisionNodes.Inc()
}

func (m *Metrics) incCheckpoint() {
	if m == nil {
		return
	}
	m.checkpoints.Inc()
}

func (m *Metrics) incRollback() {
	if m == nil {
		return
	}
	m.rollbacks.Inc()
}
