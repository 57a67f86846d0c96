// Package ishobjects holds the public shapes returned by the API25
// services: cards with their fields (ishobjects), folders (ishfolders)
// and search hits (ishsearchresults).
package ishobjects
