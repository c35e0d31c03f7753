package engine

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lite2pg/internal/schema"
	"lite2pg/internal/typemap"

	"github.com/brianvoe/gofakeit/v6"
)

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

var typeLength = regexp.MustCompile(`\(\s*(\d+)`)

// declaredLength extracts n from "VARCHAR(n)"; 0 means unbounded.
func declaredLength(declared string) int {
	m := typeLength.FindStringSubmatch(declared)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

// awkwardText returns strings that need escaping on the way to the target.
func awkwardText() string {
	switch seededRand.Intn(3) {
	case 0:
		return fmt.Sprintf("%s's notes", gofakeit.LastName())
	case 1:
		return fmt.Sprintf(`C:\Users\%s\%s`, gofakeit.Username(), gofakeit.Word())
	default:
		return fmt.Sprintf("O'%s\\%s", gofakeit.LastName(), gofakeit.Word())
	}
}

// GenerateValue generates a random value based on column definition
func GenerateValue(col *schema.Column) any {
	dataType := typemap.Normalize(col.DeclaredType)
	colName := strings.ToLower(col.Name)
	meaning := col.Meaning
	length := declaredLength(col.DeclaredType)

	// Nullable columns stay empty now and then.
	if !col.NotNull && !col.IsPK && seededRand.Intn(10) == 0 {
		return nil
	}

	// 1. 날짜/시간 타입 (SQLite는 텍스트로 저장)
	if strings.Contains(dataType, "DATE") || strings.Contains(dataType, "TIME") {
		val := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())
		if dataType == "DATE" {
			return val.Format("2006-01-02")
		}
		if dataType == "TIME" {
			return val.Format("15:04:05")
		}
		return val.Format("2006-01-02 15:04:05")
	}

	// 2. 불린 타입
	if strings.Contains(dataType, "BOOL") {
		return seededRand.Intn(2)
	}

	// 3. 숫자 타입
	if strings.Contains(dataType, "INT") {
		if strings.Contains(meaning, "yesno") || strings.Contains(colName, "active") || strings.Contains(colName, "enabled") {
			return seededRand.Intn(2)
		}
		if strings.Contains(colName, "year") {
			return 2000 + seededRand.Intn(26)
		}
		return int64(gofakeit.Number(1, 50000))
	}
	if strings.Contains(dataType, "REAL") || strings.Contains(dataType, "FLOA") || strings.Contains(dataType, "DOUB") ||
		strings.Contains(dataType, "NUMERIC") || strings.Contains(dataType, "DECIMAL") {
		return gofakeit.Price(0.99, 99.99)
	}

	// 4. 바이너리 타입
	if strings.Contains(dataType, "BLOB") {
		b := make([]byte, 4+seededRand.Intn(12))
		seededRand.Read(b)
		return b
	}

	// 5. 문자열 타입 (Meaning 분석을 최우선 적용)
	switch {
	case strings.Contains(meaning, "email"):
		return truncate(gofakeit.Email(), length)
	case strings.Contains(meaning, "phone"):
		return truncate(gofakeit.Phone(), length)
	case strings.Contains(meaning, "address"):
		return truncate(gofakeit.Address().Address, length)
	case strings.Contains(meaning, "zipcode"):
		return truncate(gofakeit.Zip(), length)
	case strings.Contains(meaning, "url") || strings.Contains(meaning, "image"):
		return truncate(gofakeit.URL(), length)
	case strings.Contains(meaning, "name"):
		return truncate(gofakeit.Name(), length)
	case strings.Contains(meaning, "title") || strings.Contains(meaning, "subject"):
		return truncate(gofakeit.Sentence(4), length)
	case strings.Contains(meaning, "text") || strings.Contains(meaning, "description") ||
		strings.Contains(meaning, "message") || strings.Contains(meaning, "comment"):
		if seededRand.Intn(4) == 0 {
			return truncate(awkwardText(), length)
		}
		return truncate(gofakeit.Sentence(12), length)
	}

	if length > 0 && length < 20 {
		return truncate(gofakeit.Word(), length)
	}
	return truncate(gofakeit.Word()+"-"+strconv.Itoa(seededRand.Intn(1000)), length)
}
