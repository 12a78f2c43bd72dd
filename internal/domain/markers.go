package domain

// ProjectMarkers reduces display records to map pins. Records without a
// resolved coordinate pair are dropped; the rest keep their input order.
func ProjectMarkers(records []DisplayRecord) []MapMarker {
	markers := make([]MapMarker, 0, len(records))
	for _, rec := range records {
		p, ok := rec.Coordinates()
		if !ok {
			continue
		}
		markers = append(markers, MapMarker{Name: rec.Name, Lat: p.Lat, Lon: p.Lon})
	}
	return markers
}
