package httpmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetCardinalityOverride(t *testing.T) {
	t.Run("中间件未安装时返回 false", func(t *testing.T) {
		ok := SetCardinalityOverride(context.Background(), CardinalityOverride{KeepParams: []string{"id"}})
		assert.False(t, ok)
	})

	t.Run("中间件已安装时写入生效", func(t *testing.T) {
		ctx, holder := newOverrideContext(context.Background())

		ok := SetCardinalityOverride(ctx, CardinalityOverride{KeepParams: []string{"language"}})
		assert.True(t, ok)
		assert.Equal(t, []string{"language"}, holder.keepParams())
	})

	t.Run("重复设置时后一次覆盖前一次", func(t *testing.T) {
		ctx, holder := newOverrideContext(context.Background())

		SetCardinalityOverride(ctx, CardinalityOverride{KeepParams: []string{"language"}})
		SetCardinalityOverride(ctx, CardinalityOverride{KeepParams: []string{"slug"}})
		assert.Equal(t, []string{"slug"}, holder.keepParams())
	})

	t.Run("派生上下文中的写入对外层可见", func(t *testing.T) {
		ctx, holder := newOverrideContext(context.Background())
		child := context.WithValue(ctx, struct{ k string }{"unrelated"}, "value")

		ok := SetCardinalityOverride(child, CardinalityOverride{KeepParams: []string{"id"}})
		assert.True(t, ok)
		assert.Equal(t, []string{"id"}, holder.keepParams())
	})
}

func TestOverrideHolderNilSafe(t *testing.T) {
	var holder *overrideHolder
	assert.Nil(t, holder.keepParams())
}
