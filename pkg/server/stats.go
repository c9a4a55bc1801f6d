package server

import (
	"log"
	"net/http"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *server) stats(w http.ResponseWriter, r *http.Request) {
	st := s.c.Stats()
	msg, err := structpb.NewStruct(map[string]interface{}{
		"size":      st.Size,
		"capacity":  st.Capacity,
		"hits":      st.Hits,
		"misses":    st.Misses,
		"inserts":   st.Inserts,
		"refreshes": st.Refreshes,
		"evictions": st.Evictions,
		"releases":  st.Releases,
		"keys":      keys(s.c.Keys()),
	})
	if err != nil {
		log.Printf("[server] stats: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	var data []byte
	typ := "application/json"
	if strings.Contains(r.Header.Get("Accept"), ProtobufType) {
		typ = ProtobufType
		data, err = proto.Marshal(msg)
	} else {
		data, err = protojson.Marshal(msg)
	}
	if err != nil {
		log.Printf("[server] stats: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	send(w, http.StatusOK, typ, data)
}

func keys(ks []string) []interface{} {
	vs := make([]interface{}, len(ks))
	for i, k := range ks {
		vs[i] = k
	}
	return vs
}
