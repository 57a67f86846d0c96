package soap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const getMetadataResponse = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <GetMetadataResponse xmlns="urn:trisoft-ish-api25:Folder25" xmlns:i="http://www.w3.org/2001/XMLSchema-instance">
      <psOutXMLFolderList>&lt;ishfolders&gt;&lt;ishfolder ishfolderref="1"/&gt;&lt;/ishfolders&gt;</psOutXMLFolderList>
      <plOutFolderRef>7598</plOutFolderRef>
      <palOutRefs xmlns:a="http://schemas.microsoft.com/2003/10/Serialization/Arrays"><a:long>1</a:long><a:long>2</a:long></palOutRefs>
      <psNothing i:nil="true"/>
    </GetMetadataResponse>
  </s:Body>
</s:Envelope>`

func TestParseResponse(t *testing.T) {
	resp, err := ParseResponse([]byte(getMetadataResponse))
	require.NoError(t, err)

	assert.Equal(t, "GetMetadata", resp.Operation)
	assert.Equal(t, `<ishfolders><ishfolder ishfolderref="1"/></ishfolders>`, resp.String("psOutXMLFolderList"))

	n, err := resp.Int64("plOutFolderRef")
	require.NoError(t, err)
	assert.Equal(t, int64(7598), n)

	refs, err := resp.Int64s("palOutRefs")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, refs)

	assert.False(t, resp.Has("psNothing"))
	assert.Equal(t, "", resp.String("psNothing"))
	assert.Nil(t, resp.Strings("missing"))

	_, err = resp.Int64("missing")
	assert.Error(t, err)
}

func TestParseResponse_EmptyBody(t *testing.T) {
	_, err := ParseResponse([]byte(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body/></s:Envelope>`))
	assert.Error(t, err)
}

func TestParseFault(t *testing.T) {
	tests := []struct {
		name       string
		xml        string
		wantCode   string
		wantNumber int
		notFound   bool
		denied     bool
	}{
		{
			name: "soap 1.1 ish fault",
			xml: `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body><s:Fault>
<faultcode>s:Client</faultcode>
<faultstring xml:lang="en-US">[-106011] The object GUID-X does not exist. [106011;InvalidObject]</faultstring>
</s:Fault></s:Body></s:Envelope>`,
			wantCode:   "s:Client",
			wantNumber: -106011,
			notFound:   true,
		},
		{
			name: "soap 1.2",
			xml: `<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope"><s:Body><s:Fault>
<s:Code><s:Value>s:Receiver</s:Value></s:Code>
<s:Reason><s:Text xml:lang="en-US">Access denied for user admin2</s:Text></s:Reason>
</s:Fault></s:Body></s:Envelope>`,
			wantCode: "s:Receiver",
			denied:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFault([]byte(tt.xml))
			require.NoError(t, err)
			require.NotNil(t, f)
			assert.Equal(t, tt.wantCode, f.Code)
			assert.Equal(t, tt.wantNumber, f.Number)
			assert.Equal(t, tt.notFound, f.IsNotFound())
			assert.Equal(t, tt.denied, f.IsAccessDenied())
			assert.True(t, strings.HasPrefix(f.Error(), "soap fault: "))
			assert.True(t, IsFault(CheckFault([]byte(tt.xml))))
		})
	}

	f, err := ParseFault([]byte(getMetadataResponse))
	assert.NoError(t, err)
	assert.Nil(t, f)
	assert.NoError(t, CheckFault([]byte(getMetadataResponse)))
}
