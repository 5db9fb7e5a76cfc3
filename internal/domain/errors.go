package domain

import "errors"

// ErrInvalidInput 表示排班输入不合法，此时排班引擎拒绝运行
var ErrInvalidInput = errors.New("排班输入不合法")
