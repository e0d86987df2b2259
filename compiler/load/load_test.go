package load

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	s, err := FileSource{Path: "testdata/trippin.xml"}.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Trippin.Models", s.Namespace)
	require.Len(t, s.EnumTypes, 2)
	require.Len(t, s.ComplexTypes, 2)
	require.Len(t, s.EntityTypes, 2)

	t.Run("declaration order", func(t *testing.T) {
		assert.Equal(t, "PersonGender", s.EnumTypes[0].Name)
		assert.Equal(t, "Location", s.ComplexTypes[0].Name)
		assert.Equal(t, "City", s.ComplexTypes[1].Name)
		assert.Equal(t, "Person", s.EntityTypes[0].Name)
	})

	t.Run("implicit member values", func(t *testing.T) {
		assert.Equal(t, []Member{
			{Name: "Feature1", Value: 0},
			{Name: "Feature2", Value: 1},
			{Name: "Feature4", Value: 4},
			{Name: "Feature5", Value: 5},
		}, s.EnumTypes[1].Members)
	})

	t.Run("nullability", func(t *testing.T) {
		person := s.EntityTypes[0]
		assert.Equal(t, NonNull, person.Properties[0].Nullable)
		assert.Equal(t, Unspecified, person.Properties[2].Nullable)
		assert.True(t, person.Properties[2].Nullable.IsNullable())
		assert.Equal(t, Unspecified, person.NavigationProperties[0].Nullable)
		assert.Equal(t, Nullable, person.NavigationProperties[1].Nullable)
		assert.Equal(t, NonNull, person.NavigationProperties[2].Nullable)
	})

	t.Run("navigation properties", func(t *testing.T) {
		person := s.EntityTypes[0]
		require.Len(t, person.NavigationProperties, 3)
		assert.Equal(t, "Collection(Trippin.Models.Trip)", person.NavigationProperties[2].Type)
	})
}

func TestParseErrors(t *testing.T) {
	t.Run("malformed xml", func(t *testing.T) {
		_, err := Parse(strings.NewReader("<edmx:Edmx"))
		require.Error(t, err)
	})

	t.Run("no schema", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`<Edmx><DataServices></DataServices></Edmx>`))
		require.ErrorIs(t, err, ErrNoSchema)
	})

	t.Run("empty schema is not an error", func(t *testing.T) {
		s, err := Parse(strings.NewReader(`<Edmx><DataServices><Schema Namespace="X"/></DataServices></Edmx>`))
		require.NoError(t, err)
		assert.True(t, s.Empty())
	})
}

func TestParseNullability(t *testing.T) {
	tests := []struct {
		in   string
		want Nullability
	}{
		{"true", Nullable},
		{"false", NonNull},
		{"", Unspecified},
		{"False", Unspecified},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNullability(tt.in))
		})
	}
}

func TestMetadataURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"root", "https://services.odata.org", "https://services.odata.org/$metadata", false},
		{"service path", "https://services.odata.org/V4/TripPinService", "https://services.odata.org/V4/TripPinService/$metadata", false},
		{"trailing slash", "http://localhost:8080/odata/", "http://localhost:8080/odata/$metadata", false},
		{"query dropped", "http://localhost/odata?x=1", "http://localhost/odata/$metadata", false},
		{"relative", "odata/service", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MetadataURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLSource(t *testing.T) {
	doc, err := os.ReadFile("testdata/trippin.xml")
	require.NoError(t, err)

	t.Run("fetches metadata", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write(doc)
		}))
		defer srv.Close()

		s, err := NewURLSource(srv.URL + "/service").Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/service/$metadata", gotPath)
		assert.Len(t, s.EntityTypes, 2)
	})

	t.Run("non 2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := NewURLSource(srv.URL).Load(context.Background())
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	})

	t.Run("self-signed certificate", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(doc)
		}))
		defer srv.Close()

		_, err := NewURLSource(srv.URL).Load(context.Background())
		require.Error(t, err)

		s, err := NewURLSource(srv.URL, WithInsecureTLS(true)).Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, s.EnumTypes, 2)
	})
}

func TestSnapshot(t *testing.T) {
	s, err := FileSource{Path: "testdata/trippin.xml"}.Load(context.Background())
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshot(&buf, s))
		got, err := ReadSnapshot(&buf)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	})

	t.Run("recording source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trippin.msgpack")
		_, err := Recording(FileSource{Path: "testdata/trippin.xml"}, path).Load(context.Background())
		require.NoError(t, err)

		got, err := SnapshotSource{Path: path}.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ReadSnapshot(strings.NewReader("not msgpack"))
		require.Error(t, err)
	})
}
