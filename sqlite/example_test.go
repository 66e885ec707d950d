package sqlite_test

import (
	"errors"
	"fmt"
	"os"

	"github.com/GintGld/sqlguard/sqlite"
)

func Example() {
	c := sqlite.New(sqlite.Options{LogHandler: sqlite.NewTextLogHandler(os.Stdout)})
	if err := c.Open(":memory:"); err != nil {
		panic(err)
	}
	defer c.Release()

	if _, err := c.ExecDML("CREATE TABLE tracks (id INTEGER PRIMARY KEY, title TEXT)"); err != nil {
		panic(err)
	}

	ins, err := c.CompileStatement("INSERT INTO tracks (title) VALUES (?)")
	if err != nil {
		panic(err)
	}
	defer ins.Release()

	for _, title := range []string{"Mr. Brightside", "Angel Of Small Death"} {
		if err := ins.BindText(1, title); err != nil {
			panic(err)
		}
		if _, err := ins.ExecDML(); err != nil {
			panic(err)
		}
	}

	q, err := c.ExecQuery("SELECT id, title FROM tracks ORDER BY id")
	if err != nil {
		panic(err)
	}
	defer q.Release()

	for eof, _ := q.EOF(); !eof; eof, _ = q.EOF() {
		id, _ := q.IntField(0, 0)
		title, _ := q.StringFieldByName("title", "")
		fmt.Println(id, title)

		if err := q.NextRow(); err != nil {
			panic(err)
		}
	}

	// Output:
	// 1 Mr. Brightside
	// 2 Angel Of Small Death
}

func ExampleErrorHandler() {
	errInvalidQuery := errors.New("invalid query")

	c := sqlite.New(sqlite.Options{
		ErrorHandler: func(code sqlite.Code, msg, context string) error {
			if code == sqlite.CodeError {
				return fmt.Errorf("%w: %s %s", errInvalidQuery, msg, context)
			}
			return sqlite.DefaultErrorHandler(code, msg, context)
		},
	})
	if err := c.Open(":memory:"); err != nil {
		panic(err)
	}
	defer c.Release()

	_, err := c.ExecQuery("SELCT 1")
	fmt.Println(errors.Is(err, errInvalidQuery))
	fmt.Println(err)

	// Output:
	// true
	// invalid query: near "SELCT": syntax error when compiling statement
}
