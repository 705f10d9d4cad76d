// A logrus hook appending log entries to a file

package hooks

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

type File struct {
	lock *sync.Mutex
	path string
}

func (hook *File) Fire(entry *logrus.Entry) error {
	serialized, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	hook.lock.Lock()
	defer hook.lock.Unlock()
	f, err := os.OpenFile(hook.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(serialized)
	return err
}

// Returns the log levels support by this hook
func (hook *File) Levels() []logrus.Level {
	return logrus.AllLevels
}

func NewFileHook(path string) *File {
	return &File{
		lock: &sync.Mutex{},
		path: path,
	}
}
