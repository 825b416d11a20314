package snowflake

import (
	"errors"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once

	errInvalidMachineID    = errors.New("invalid snowflake machine id")
	errInvalidDataCenterID = errors.New("invalid snowflake datacenter id")
	errGeneratorUninitial  = errors.New("snowflake generator is not initialized")
)

// Init 节点号由 datacenterID 与 machineID 拼成 10 位，两者都在 0~31。
func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		n, err := newNode(machineID, dataCenterID)
		if err != nil {
			initErr = err
			return
		}
		node = n
	})

	return initErr
}

func newNode(machineID, dataCenterID int64) (*snowflake.Node, error) {
	if machineID < 0 || machineID > 31 {
		return nil, errInvalidMachineID
	}
	if dataCenterID < 0 || dataCenterID > 31 {
		return nil, errInvalidDataCenterID
	}
	return snowflake.NewNode((dataCenterID << 5) | machineID)
}

func NextID() (int64, error) {
	if node == nil {
		return 0, errGeneratorUninitial
	}

	return node.Generate().Int64(), nil
}

// ParseID 解析对外暴露的十进制字符串 ID。
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FormatID 与 ParseID 对应。
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
