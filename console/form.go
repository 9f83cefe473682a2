package console

import (
	"os"

	"go.uber.org/zap"
)

type StaticForm struct {
	nickname string
	email    string
	code     string
}

func NewStaticForm(nickname, email, code string) *StaticForm {
	return &StaticForm{nickname: nickname, email: email, code: code}
}

func (f *StaticForm) Nickname() string { return f.nickname }
func (f *StaticForm) Email() string    { return f.email }
func (f *StaticForm) Code() string     { return f.code }

// FileForm reads the code from disk every time it is asked, so edits made
// between attempts are picked up.
type FileForm struct {
	logger   *zap.Logger
	nickname string
	email    string
	codePath string
}

func NewFileForm(logger *zap.Logger, nickname, email, codePath string) *FileForm {
	return &FileForm{logger: logger, nickname: nickname, email: email, codePath: codePath}
}

func (f *FileForm) Nickname() string { return f.nickname }
func (f *FileForm) Email() string    { return f.email }

func (f *FileForm) Code() string {
	data, err := os.ReadFile(f.codePath)
	if err != nil {
		f.logger.Warn(
			"failed to read code file",
			zap.String("path", f.codePath),
			zap.Error(err),
		)
		return ""
	}
	return string(data)
}
