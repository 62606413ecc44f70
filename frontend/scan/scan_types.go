package scan

import "dockhand/scanflow"

type PageData struct {
	View    scanflow.View
	Notices []scanflow.Notice
}
