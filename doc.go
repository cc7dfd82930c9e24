// Package xdb reads the ip2region "xdb" binary index format and answers
// IP-to-region lookups against it.
//
// An xdb file is a 256-byte header, a fixed 256x256 vector index, and a
// segment index / region payload pool (see the format diagram in
// CodingOX-ip2region's maker). Given a 4-byte (IPv4) or 16-byte (IPv6)
// address, Search locates the vector slot for the address's first two
// bytes, binary-searches that slot's sorted segment array, and returns the
// UTF-8 region string the matching segment points at — or the empty string
// if no segment covers the address.
//
// Three cache strategies trade memory for I/O:
//
//   - PolicyFile reads everything from disk on every query (lowest memory).
//   - PolicyVectorIndex preloads the 512KiB vector index once and still
//     reads segment/region data from disk (a middle ground).
//   - PolicyContent memory-maps the whole file, so queries issue zero I/O.
//
// Basic usage:
//
//	s, err := xdb.NewSearcher(xdb.PolicyVectorIndex, "ip2region.xdb")
//	if err != nil {
//	    log.Fatalf("open xdb: %v", err)
//	}
//	defer s.Close()
//
//	region, err := s.SearchString("1.2.3.4")
//	if err != nil {
//	    log.Printf("lookup failed: %v", err)
//	} else if region == "" {
//	    fmt.Println("no match")
//	} else {
//	    fmt.Println(region)
//	}
package xdb
