package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	hex "github.com/tmthrgd/go-hex"
)

// RootPathEnv overrides the node root directory when set
const RootPathEnv = "XCAMPAIGN_ROOT_PATH"

// FileIsExist reports whether the named file or directory exists.
func FileIsExist(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}

	return true
}

// GenPseudoUniqId generate unique id, not strictly unique.
// The probability of repetition is low enough for log ids.
func GenPseudoUniqId() uint64 {
	nano := time.Now().UnixNano()
	r := rand.New(rand.NewSource(nano))

	randNum1 := r.Int63()
	randNum2 := r.Int63()
	shift1 := r.Intn(16) + 2
	shift2 := r.Intn(8) + 1

	uId := ((randNum1 >> uint(shift1)) + (randNum2 >> uint(shift2)) + (nano >> 1)) &
		0x1FFFFFFFFFFFFF
	return uint64(uId)
}

// GenLogId generate log id
func GenLogId() string {
	return fmt.Sprintf("%d_%d", time.Now().Unix(), GenPseudoUniqId())
}

// GetFuncCall get call method by runtime.Caller
func GetFuncCall(callDepth int) (string, string) {
	pc, file, line, ok := runtime.Caller(callDepth)
	if !ok {
		return "???:0", "???"
	}

	f := runtime.FuncForPC(pc)
	_, function := path.Split(f.Name())
	_, filename := path.Split(file)

	fline := filename + ":" + strconv.Itoa(line)
	return fline, function
}

// GetCurFileDir 获取当前源文件目录
func GetCurFileDir() string {
	_, filename, _, _ := runtime.Caller(1)
	return path.Dir(filename)
}

// GetCurExecDir 获取当前执行目录
func GetCurExecDir() string {
	curDir, _ := filepath.Abs(filepath.Dir(os.Args[0]))
	return curDir
}

// GetRootPath returns XCAMPAIGN_ROOT_PATH if it points to an existing dir,
// otherwise the parent of the running binary's directory.
func GetRootPath() string {
	rtPath := os.Getenv(RootPathEnv)
	if rtPath != "" && FileIsExist(rtPath) {
		return rtPath
	}

	return filepath.Dir(GetCurExecDir())
}

func GetHostName() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "127.0.0.1"
	}

	return hostname
}

// F print byte slice data as hex string
func F(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeId decode hex string id to bytes
func DecodeId(str string) []byte {
	raw, err := hex.DecodeString(str)
	if err != nil {
		return nil
	}

	return raw
}
