package service

import "errors"

// 可預期的業務錯誤，只回報給發起操作的呼叫者，不會廣播給房間內其他成員，
// 也不會留下部分寫入的狀態
var (
	ErrRoomNotFound       = errors.New("房間不存在")
	ErrQuestionNotFound   = errors.New("題目不存在")
	ErrNotHost            = errors.New("只有房主可以開始回合")
	ErrRoomFull           = errors.New("房間已滿")
	ErrAlreadyInRoom      = errors.New("用戶已在房間中")
	ErrNotInRoom          = errors.New("用戶不在房間中")
	ErrRoundAlreadyActive = errors.New("已有進行中的回合")
	ErrNoActiveRound      = errors.New("沒有進行中的回合")
	ErrDuplicateAnswer    = errors.New("該題已經作答過")
	ErrNotEnoughQuestions = errors.New("題庫題目不足")
)

var errUnknownCommand = errors.New("未知的指令類型")
