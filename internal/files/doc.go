// Package files locates the yearly borough workbooks a run reads.
//
// Discovery maps each planned domain.Source to its conventional file name
// (<year>_<borough>.xlsx) under the input directory and reports which are
// missing. It also lists any other Excel files in the directory so operators
// notice misnamed inputs.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.InputDir)
//	located, err := discovery.Locate(sources)
//	if err != nil {
//		// one or more planned workbooks are absent
//	}
package files
