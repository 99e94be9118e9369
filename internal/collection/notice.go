package collection

// NoticeLevel indicates the severity/type of a notice.
type NoticeLevel int

const (
	LevelInfo NoticeLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l NoticeLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Notice is a user-visible message emitted by the Controller.
type Notice struct {
	Message string
	Level   NoticeLevel

	// Err is the failure behind a LevelError notice, nil otherwise.
	Err error
}
