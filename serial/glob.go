package serial

import "path/filepath"

// globPorts expands the patterns in order, dropping duplicates and the
// devices rejected by keep (which may be nil)
func globPorts(patterns []string, keep func(device string) bool) ([]string, error) {
	var devices []string
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}

		for _, device := range matches {
			if _, ok := seen[device]; ok {
				continue
			}
			seen[device] = struct{}{}

			if keep == nil || keep(device) {
				devices = append(devices, device)
			}
		}
	}

	return devices, nil
}
