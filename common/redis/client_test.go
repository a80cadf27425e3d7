package redis

import (
	"context"
	"net"
	"testing"

	"github.com/JakeSchindel1/JHOnboard-sub001/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_RequiresAddr(t *testing.T) {
	_, err := Connect(context.Background(), &config.RedisConfig{})
	require.Error(t, err)
	_, err = Connect(context.Background(), nil)
	require.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	// 占用一个端口后立即释放，保证连接被拒绝
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c, err := Connect(context.Background(), &config.RedisConfig{Addr: addr})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), addr)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
