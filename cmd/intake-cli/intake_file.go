package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// readIntake 读取 Intake JSON 文件；"-" 表示 stdin
func readIntake(stdin io.Reader, path string) (domain.Intake, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Intake{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var in domain.Intake
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.Intake{}, fmt.Errorf("failed to parse intake JSON: %w", err)
	}
	return in, nil
}

func requestTimeout() time.Duration {
	d, err := time.ParseDuration(timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
