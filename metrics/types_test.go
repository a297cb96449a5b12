package metrics

import (
	"testing"
)

// TestLabel 测试 Label 结构体和 L 函数
func TestLabel(t *testing.T) {
	label := L("method", "GET")

	if label.Key != "method" {
		t.Errorf("L().Key = %v, want %v", label.Key, "method")
	}

	if label.Value != "GET" {
		t.Errorf("L().Value = %v, want %v", label.Value, "GET")
	}

	label2 := Label{
		Key:   "status",
		Value: "200",
	}

	if label2.Key != "status" {
		t.Errorf("Label.Key = %v, want %v", label2.Key, "status")
	}

	if label2.Value != "200" {
		t.Errorf("Label.Value = %v, want %v", label2.Value, "200")
	}
}

// TestWithUnit 测试 WithUnit 选项
func TestWithUnit(t *testing.T) {
	opts := &MetricOptions{}

	WithUnit("s")(opts)

	if opts.Unit != "s" {
		t.Errorf("WithUnit() Unit = %v, want %v", opts.Unit, "s")
	}
}

// TestWithBuckets 测试 WithBuckets 选项
func TestWithBuckets(t *testing.T) {
	opts := &MetricOptions{}

	buckets := []float64{0.1, 0.5, 1, 5}
	WithBuckets(buckets)(opts)

	if len(opts.Buckets) != 4 {
		t.Fatalf("WithBuckets() len = %d, want 4", len(opts.Buckets))
	}
	for i, b := range buckets {
		if opts.Buckets[i] != b {
			t.Errorf("Buckets[%d] = %v, want %v", i, opts.Buckets[i], b)
		}
	}
}

// TestOptionsCompose 测试多个选项的组合
func TestOptionsCompose(t *testing.T) {
	opts := &MetricOptions{}

	WithUnit("By")(opts)
	WithBuckets([]float64{256, 1024})(opts)

	if opts.Unit != "By" {
		t.Errorf("Unit = %v, want By", opts.Unit)
	}
	if len(opts.Buckets) != 2 {
		t.Errorf("Buckets len = %d, want 2", len(opts.Buckets))
	}
}
