package qtconf

// BuildPreset is the compile setup that goes with a ModuleConfig. Headers and
// Sources are relative to SourceDir, SourceDir and Includes to the checkout.
type BuildPreset struct {
	SourceDir string
	Headers   []string
	Sources   []string
	Includes  []string
	Defines   []Define
}

var mocSources = []string{
	"tools/moc/collectjson.cpp",
	"tools/moc/generator.cpp",
	"tools/moc/moc.cpp",
	"tools/moc/parser.cpp",
	"tools/moc/preprocessor.cpp",
	"tools/moc/token.cpp",
}

// the QtCore subset that QT_BOOTSTRAPPED tools link against
var bootstrapSources = []string{
	"corelib/global/qendian.cpp",
	"corelib/global/qglobal.cpp",
	"corelib/global/qlogging.cpp",
	"corelib/global/qmalloc.cpp",
	"corelib/global/qnumeric.cpp",
	"corelib/global/qoperatingsystemversion.cpp",
	"corelib/global/qrandom.cpp",
	"corelib/io/qabstractfileengine.cpp",
	"corelib/io/qbuffer.cpp",
	"corelib/io/qdebug.cpp",
	"corelib/io/qdir.cpp",
	"corelib/io/qdiriterator.cpp",
	"corelib/io/qfile.cpp",
	"corelib/io/qfiledevice.cpp",
	"corelib/io/qfileinfo.cpp",
	"corelib/io/qfilesystemengine.cpp",
	"corelib/io/qfilesystementry.cpp",
	"corelib/io/qfsfileengine.cpp",
	"corelib/io/qfsfileengine_iterator.cpp",
	"corelib/io/qiodevice.cpp",
	"corelib/io/qloggingcategory.cpp",
	"corelib/io/qloggingregistry.cpp",
	"corelib/io/qsavefile.cpp",
	"corelib/io/qstandardpaths.cpp",
	"corelib/io/qtemporarydir.cpp",
	"corelib/io/qtemporaryfile.cpp",
	"corelib/kernel/qcoreapplication.cpp",
	"corelib/kernel/qcoreglobaldata.cpp",
	"corelib/kernel/qiterable.cpp",
	"corelib/kernel/qmetacontainer.cpp",
	"corelib/kernel/qmetatype.cpp",
	"corelib/kernel/qsystemerror.cpp",
	"corelib/kernel/qvariant.cpp",
	"corelib/plugin/quuid.cpp",
	"corelib/serialization/qcborcommon.cpp",
	"corelib/serialization/qcborstreamwriter.cpp",
	"corelib/serialization/qcborvalue.cpp",
	"corelib/serialization/qjsonarray.cpp",
	"corelib/serialization/qjsoncbor.cpp",
	"corelib/serialization/qjsondocument.cpp",
	"corelib/serialization/qjsonobject.cpp",
	"corelib/serialization/qjsonparser.cpp",
	"corelib/serialization/qjsonvalue.cpp",
	"corelib/serialization/qjsonwriter.cpp",
	"corelib/serialization/qtextstream.cpp",
	"corelib/serialization/qxmlstream.cpp",
	"corelib/serialization/qxmlutils.cpp",
	"corelib/text/qbytearray.cpp",
	"corelib/text/qbytearraylist.cpp",
	"corelib/text/qbytearraymatcher.cpp",
	"corelib/text/qlocale.cpp",
	"corelib/text/qlocale_tools.cpp",
	"corelib/text/qregularexpression.cpp",
	"corelib/text/qstring.cpp",
	"corelib/text/qstringbuilder.cpp",
	"corelib/text/qstringconverter.cpp",
	"corelib/text/qstringlist.cpp",
	"corelib/text/qvsnprintf.cpp",
	"corelib/time/qcalendar.cpp",
	"corelib/time/qdatetime.cpp",
	"corelib/time/qgregoriancalendar.cpp",
	"corelib/time/qromancalendar.cpp",
	"corelib/tools/qarraydata.cpp",
	"corelib/tools/qbitarray.cpp",
	"corelib/tools/qcommandlineoption.cpp",
	"corelib/tools/qcommandlineparser.cpp",
	"corelib/tools/qcryptographichash.cpp",
	"corelib/tools/qhash.cpp",
	"corelib/tools/qline.cpp",
	"corelib/tools/qpoint.cpp",
	"corelib/tools/qrect.cpp",
	"corelib/tools/qsize.cpp",
	"corelib/tools/qversionnumber.cpp",
}

var bootstrapSourcesUnix = []string{
	"corelib/io/qfilesystemengine_unix.cpp",
	"corelib/io/qfilesystemiterator_unix.cpp",
	"corelib/io/qfsfileengine_unix.cpp",
	"corelib/io/qstandardpaths_unix.cpp",
	"corelib/kernel/qcore_unix.cpp",
	"corelib/text/qlocale_unix.cpp",
}

// HostTools is the bootstrap build of QtCore with moc on top, as used to
// build code generators for the host. Pair it with DefaultQtCore.
func HostTools() BuildPreset {
	sources := make([]string, 0, len(mocSources)+len(bootstrapSources)+len(bootstrapSourcesUnix))
	sources = append(sources, mocSources...)
	sources = append(sources, bootstrapSources...)
	sources = append(sources, bootstrapSourcesUnix...)

	return BuildPreset{
		SourceDir: "qtbase/src",
		Headers:   []string{"corelib/**/*.h"},
		Sources:   sources,
		Includes: []string{
			"qtbase/src/3rdparty/tinycbor/src",
			"qtbase/src/tools/shared",
		},
		Defines: []Define{
			{"HAVE_CONFIG_H", ""},
			{"QT_BOOTSTRAPPED", ""},
			{"QT_USE_QSTRINGBUILDER", ""},
			{"QT_NO_CAST_FROM_ASCII", ""},
			{"QT_NO_CAST_TO_ASCII", ""},
			{"QT_NO_FOREACH", ""},
			// the embedding program provides main
			{"main", "hiddenmocmain"},
		},
	}
}
