// Package report writes a flat lattice tiling session as an XML document and
// reads such documents back.
//
// Layout:
//
//	<?xml version="1.0"?>
//	<flatlatticetiling>
//	  <dimension>2</dimension>
//	  <metric>
//	     1.0000000000000000e+00  0.0000000000000000e+00 ;
//	     0.0000000000000000e+00  1.0000000000000000e+00 ;
//	  </metric>
//	  <mismatch>1.0000000000000000e-02</mismatch>
//	  <generator> ... </generator>
//	  <bounds>
//	    <type>square</type><lower>...</lower><upper>...</upper>
//	  </bounds>
//	  <increment> ... </increment>
//	  <templates> ... </templates>
//	</flatlatticetiling>
//
// Matrix rows and points are four-space indented, every value is printed
// with "% .16e " and each row ends in ';'. Bounds that do not implement
// tiling.Describer are written as <bounds><type>unknown</type></bounds>.
package report
