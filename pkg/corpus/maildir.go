package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zpam/nbfilter/pkg/email"
	"github.com/zpam/nbfilter/pkg/learning"
)

// ReadMailDir reads every message file below dir. Records are labeled with
// label when labeled is set. Files are visited in lexical order so repeated
// runs see the same corpus order.
func ReadMailDir(dir string, label learning.Label, labeled bool) (*Result, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		// Check if file looks like an email
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".eml" && ext != ".msg" && ext != ".email" && ext != "" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	parser := email.NewParser()
	result := &Result{}
	for _, path := range paths {
		msg, err := parser.ParseFromFile(path)
		if err != nil {
			result.Skipped = append(result.Skipped, &learning.MalformedInputError{
				ID: path, Reason: "unparseable message", Err: err,
			})
			continue
		}

		text := msg.Text()
		if strings.TrimSpace(text) == "" {
			result.Skipped = append(result.Skipped, &learning.MalformedInputError{
				ID: path, Reason: "empty message",
			})
			continue
		}

		result.Records = append(result.Records, Record{
			ID:      path,
			Text:    text,
			Label:   label,
			Labeled: labeled,
		})
	}

	return result, nil
}
