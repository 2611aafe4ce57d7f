// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package stream

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/bgpwatch/internal/metrics"
	"github.com/tomtom215/bgpwatch/internal/models"
)

func TestDispatcher_SubscribeReplaces(t *testing.T) {
	var d dispatcher
	var first, second int

	unsubFirst := d.Subscribe(func(models.Alert) { first++ })
	d.deliver(models.Alert{})
	unsubSecond := d.Subscribe(func(models.Alert) { second++ })
	d.deliver(models.Alert{})

	// A stale unsubscribe must not remove the newer consumer.
	unsubFirst()
	d.deliver(models.Alert{})

	if first != 1 || second != 2 {
		t.Fatalf("first=%d second=%d, want 1 and 2", first, second)
	}

	unsubSecond()
	d.deliver(models.Alert{})
	if second != 2 {
		t.Errorf("second = %d after unsubscribe, want 2", second)
	}
}

func TestDispatcher_DecodeAlert(t *testing.T) {
	var d dispatcher
	var got []models.Alert
	d.Subscribe(func(a models.Alert) { got = append(got, a) })

	decodeBefore := testutil.ToFloat64(metrics.AlertsRejected.WithLabelValues("decode"))
	invalidBefore := testutil.ToFloat64(metrics.AlertsRejected.WithLabelValues("invalid"))

	d.decodeAlert("test", []byte(`{"timestamp":"t1","anomaly_type":"Route Leak","confidence_score":0.87}`))
	d.decodeAlert("test", []byte(`{"timestamp":`))
	d.decodeAlert("test", []byte(`{"anomaly_type":"Route Leak","confidence_score":0.87}`))
	d.decodeAlert("test", []byte(`{"timestamp":"t2","anomaly_type":"Route Leak","confidence_score":1.5}`))

	if len(got) != 1 || got[0].Timestamp.String() != "t1" {
		t.Fatalf("delivered %+v, want only t1", got)
	}
	if d := testutil.ToFloat64(metrics.AlertsRejected.WithLabelValues("decode")) - decodeBefore; d != 1 {
		t.Errorf("decode rejections = %v, want 1", d)
	}
	if d := testutil.ToFloat64(metrics.AlertsRejected.WithLabelValues("invalid")) - invalidBefore; d != 2 {
		t.Errorf("invalid rejections = %v, want 2", d)
	}
}

func TestDispatcher_NoConsumer(t *testing.T) {
	var d dispatcher
	d.deliver(models.Alert{})
	d.decodeAlert("test", []byte(`{"timestamp":"t1","anomaly_type":"Route Leak","confidence_score":0.5}`))
}
