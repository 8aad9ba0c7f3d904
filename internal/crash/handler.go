package crash

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"tg-cognito/internal/logger"
)

// RecoverWithStack recovers a panic in the calling goroutine and logs it with its stack.
func RecoverWithStack(moduleName string) {
	if r := recover(); r != nil {
		reportPanic("PANIC", moduleName, r)
	}
}

// RecoverWithStackAndExit is deferred in main: it logs the panic and exits non-zero
// so a supervisor restarts the process.
func RecoverWithStackAndExit(moduleName string) {
	if r := recover(); r != nil {
		reportPanic("FATAL PANIC", moduleName, r)

		// let the rotating writer flush
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}
}

// SafeGoroutine starts fn in a goroutine that cannot take the process down.
func SafeGoroutine(name string, fn func()) {
	go func() {
		defer RecoverWithStack(fmt.Sprintf("goroutine-%s", name))
		fn()
	}()
}

// SafeFunc wraps fn so a panic inside it is logged instead of propagated.
// Used for timer callbacks, which run on their own goroutine.
func SafeFunc(name string, fn func()) func() {
	return func() {
		defer RecoverWithStack(name)
		fn()
	}
}

func reportPanic(kind, moduleName string, r interface{}) {
	stack := debug.Stack()

	logger.Errorf("%s in %s: %v", kind, moduleName, r)
	logger.Errorf("Stack trace:\n%s", string(stack))

	// stderr too, container logs may not see the file
	fmt.Fprintf(os.Stderr, "[%s] %s - %s: %v\n", kind, time.Now().Format("2006-01-02 15:04:05"), moduleName, r)
	fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", string(stack))

	logRuntimeInfo()
}

func logRuntimeInfo() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	info := fmt.Sprintf(`
Runtime Information:
- Go version: %s
- Number of CPUs: %d
- Number of goroutines: %d
- Memory stats:
  - Heap allocated: %d KB
  - Heap in use: %d KB
  - Stack in use: %d KB
  - Num GC: %d
`,
		runtime.Version(),
		runtime.NumCPU(),
		runtime.NumGoroutine(),
		bToKb(m.HeapAlloc),
		bToKb(m.HeapInuse),
		bToKb(m.StackInuse),
		m.NumGC,
	)

	logger.Error(info)
}

func bToKb(b uint64) uint64 {
	return b / 1024
}
